// Package response writes the success side of the API envelope:
//
//	{"success": true, "data": ...}
//	{"success": true, "data": [...], "meta": {"page": 1, "per_page": 15, ...}}
//
// Failures are rendered by pkg/exception.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/sellerhub/pkg/orm"
)

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    any  `json:"meta,omitempty"`
}

// JSON writes v as the body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 envelope with data.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created sends a 201 envelope with data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// NoContent sends a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated sends a 200 envelope with the page of data and its pagination.
func Paginated(w http.ResponseWriter, data any, p orm.Pagination) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data, Meta: p})
}
