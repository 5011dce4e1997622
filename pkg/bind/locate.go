package bind

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/sellerhub/pkg/validate"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// locate walks raw alongside the type of dest and reports every value that
// does not decode into its Go type, keyed by dot path with slice indexes as
// segments (items.1.stock). Syntax problems are left to decodeError.
func locate(dest any, raw []byte) validate.Errors {
	errs := validate.Errors{}
	t := reflect.TypeOf(dest)
	if t == nil || !json.Valid(raw) {
		return errs
	}
	walk(t, raw, nil, errs)
	return errs
}

func walk(t reflect.Type, raw json.RawMessage, path []string, errs validate.Errors) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if string(raw) == "null" {
		return
	}

	if reflect.PointerTo(t).Implements(unmarshalerType) || len(path) > 0 && leaf(t) {
		if err := json.Unmarshal(raw, reflect.New(t).Interface()); err != nil {
			typeError(t, path, errs)
		}
		return
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			typeError(t, path, errs)
			return
		}
		walkFields(t, obj, path, errs)
	case reflect.Slice, reflect.Array:
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			typeError(t, path, errs)
			return
		}
		for i, el := range arr {
			walk(t.Elem(), el, append(path[:len(path):len(path)], strconv.Itoa(i)), errs)
		}
	case reflect.Map:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			typeError(t, path, errs)
			return
		}
		for k, v := range obj {
			walk(t.Elem(), v, append(path[:len(path):len(path)], k), errs)
		}
	}
}

func walkFields(t reflect.Type, obj map[string]json.RawMessage, path []string, errs validate.Errors) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || !f.IsExported() && !f.Anonymous {
			continue
		}
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				walkFields(ft, obj, path, errs)
				continue
			}
		}
		if name == "" {
			name = f.Name
		}
		v, ok := lookup(obj, name)
		if !ok {
			continue
		}
		walk(f.Type, v, append(path[:len(path):len(path)], name), errs)
	}
}

// lookup matches keys the way encoding/json does: exact first, then
// case-insensitively.
func lookup(obj map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func leaf(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		return false
	}
	return true
}

func typeError(t reflect.Type, path []string, errs validate.Errors) {
	if len(path) == 0 {
		return
	}
	label := path[len(path)-1]
	for i := len(path) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(path[i]); err != nil {
			label = path[i]
			break
		}
	}
	errs.Add(strings.Join(path, "."),
		fmt.Sprintf("The %s must be of type %s.", strings.ReplaceAll(label, "_", " "), typeName(t)))
}

func typeName(t reflect.Type) string {
	if reflect.PointerTo(t).Implements(unmarshalerType) && t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	}
	return t.Kind().String()
}
