// Package validate runs `validate` struct tags through go-playground/validator
// and reports failures the way the API returns them: a map from the
// dot-joined JSON path of each offending field to its messages.
//
//	type Item struct {
//	    SKU   string          `json:"sku"   validate:"required,alpha_dash,max=64"`
//	    Price decimal.Decimal `json:"price" validate:"required,gt=0"`
//	}
//	type Input struct {
//	    Name  string `json:"name"  validate:"required,min=2,max=120"`
//	    Items []Item `json:"items" validate:"required,min=1,dive"`
//	}
//
//	errs := validate.Struct(&in)
//	// {"name": ["The name field is required."], "items.0.sku": ["The sku field is required."]}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Errors maps a dot-joined field path to its validation messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Fields returns the failing paths in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Error satisfies error so an Errors value can travel up a call chain.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether errs holds at least one failure.
func HasErrors(errs Errors) bool { return len(errs) > 0 }

var (
	engineOnce sync.Once
	engine     *validator.Validate

	messagesMu sync.RWMutex
	messages   = map[string]string{
		"required":   "The %[1]s field is required.",
		"email":      "The %[1]s must be a valid email address.",
		"url":        "The %[1]s must be a valid URL.",
		"uuid":       "The %[1]s must be a valid UUID.",
		"uuid4":      "The %[1]s must be a valid UUID.",
		"ip":         "The %[1]s must be a valid IP address.",
		"json":       "The %[1]s must be a valid JSON string.",
		"boolean":    "The %[1]s field must be true or false.",
		"alpha":      "The %[1]s field must contain only letters.",
		"alphanum":   "The %[1]s field must contain only letters and numbers.",
		"alpha_dash": "The %[1]s field may only contain letters, numbers, dashes, and underscores.",
		"numeric":    "The %[1]s field must be a number.",
		"number":     "The %[1]s field must be an integer.",
		"len":        "The %[1]s must be exactly %[2]s characters.",
		"gt":         "The %[1]s must be greater than %[2]s.",
		"gte":        "The %[1]s must be greater than or equal to %[2]s.",
		"lt":         "The %[1]s must be less than %[2]s.",
		"lte":        "The %[1]s must be less than or equal to %[2]s.",
		"oneof":      "The selected %[1]s is invalid.",
		"unique":     "The %[1]s must not contain duplicates.",
		"eqfield":    "The %[1]s does not match.",
		"datetime":   "The %[1]s is not a valid date.",
	}
)

var alphaDashRE = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// Engine returns the shared validator, configured on first use.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})

		// Money values are validated as numbers so gt/gte/lte apply to them.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("alpha_dash", func(fl validator.FieldLevel) bool {
			return alphaDashRE.MatchString(fl.Field().String())
		})

		engine = v
	})
	return engine
}

// RegisterRule adds a custom tag together with its message template. The
// template receives the field label as %[1]s and the tag parameter as %[2]s.
func RegisterRule(tag string, fn validator.Func, message string) error {
	if err := Engine().RegisterValidation(tag, fn); err != nil {
		return err
	}
	messagesMu.Lock()
	messages[tag] = message
	messagesMu.Unlock()
	return nil
}

// Struct validates v and returns nil when it passes.
func Struct(v interface{}) Errors {
	err := Engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		// InvalidValidationError: v was not a struct. Nothing to report per field.
		return nil
	}

	errs := Errors{}
	for _, fe := range fieldErrs {
		errs.Add(Path(fe.Namespace()), Message(fe))
	}
	return errs
}

func asValidationErrors(err error, out *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*out = ve
	}
	return ok
}

// Path turns a validator namespace ("createProductRequest.items[0].sku")
// into the path clients see ("items.0.sku"). The root struct name is dropped.
func Path(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	var b strings.Builder
	b.Grow(len(namespace))
	for i := 0; i < len(namespace); i++ {
		switch c := namespace[i]; c {
		case '[':
			b.WriteByte('.')
		case ']':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Message renders the human-readable text for one failed rule.
func Message(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	tag := fe.Tag()

	switch tag {
	case "min", "max":
		return sizeMessage(label, tag, fe)
	}

	messagesMu.RLock()
	tmpl, ok := messages[tag]
	messagesMu.RUnlock()
	if !ok {
		return fmt.Sprintf("The %s field is invalid.", label)
	}
	return fmt.Sprintf(tmpl, label, fe.Param())
}

func sizeMessage(label, tag string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		if tag == "min" {
			return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s must not exceed %s characters.", label, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		if tag == "min" {
			return fmt.Sprintf("The %s must have at least %s items.", label, fe.Param())
		}
		return fmt.Sprintf("The %s must not have more than %s items.", label, fe.Param())
	}
	if tag == "min" {
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	}
	return fmt.Sprintf("The %s must not be greater than %s.", label, fe.Param())
}
