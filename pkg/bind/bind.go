// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/validate"
)

// JSON decodes r.Body into dest and runs its `validate` rules.
//
// The body is capped at MAX_BODY_BYTES. A malformed, oversized or empty body
// yields a 400; a field of the wrong JSON type or a rule violation yields a
// 422 whose errors are keyed by field path.
func JSON(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return decodeError(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return decodeError(io.EOF)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		if errs := locate(dest, raw); validate.HasErrors(errs) {
			return exception.Validation(errs)
		}
		return decodeError(err)
	}
	if dec.More() {
		return exception.BadRequest("Request body must contain a single JSON object")
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return exception.Validation(errs)
	}
	return nil
}

func decodeError(err error) error {
	var (
		maxErr    *http.MaxBytesError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.Is(err, io.EOF):
		return exception.BadRequest("Request body must not be empty").WithCause(err)
	case errors.As(err, &maxErr):
		return exception.New(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Request body too large (max %d bytes)", maxErr.Limit)).WithCause(err)
	case errors.As(err, &syntaxErr):
		return exception.BadRequest(fmt.Sprintf("Malformed JSON at position %d", syntaxErr.Offset)).WithCause(err)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return exception.BadRequest("Malformed JSON: unexpected end of body").WithCause(err)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return exception.BadRequest("Unknown field " + field).WithCause(err)
	}
	return exception.BadRequest("Invalid JSON body").WithCause(err)
}
