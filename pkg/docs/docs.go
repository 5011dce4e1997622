// Package docs builds the OpenAPI 3 document for the API and serves it with
// Swagger UI.
//
//	d := docs.New("sellerhub", "1.0.0")
//	d.AddOperation("POST", "/api/products", docs.Operation{
//	    Summary:   "Create a product",
//	    Tag:       "products",
//	    Security:  docs.Bearer,
//	    Request:   requests.CreateProduct{},
//	    Responses: map[int]docs.Response{201: {Description: "Created", Body: models.Product{}}},
//	})
//	r.Mount("/api/docs", "docs", d.Handler("/api/docs"))
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/sellerhub/pkg/exception"
)

// Security scheme names registered on every document.
const (
	Basic  = "basic"
	Bearer = "bearer"
)

// Response documents one status code. Body is an example value whose type is
// reflected into a schema, wrapped in the success envelope.
type Response struct {
	Description string
	Body        any
}

// Operation documents one method+path.
type Operation struct {
	ID          string
	Summary     string
	Description string
	Tag         string
	Security    string // Basic, Bearer or "" for public
	Query       []string
	Request     any
	Responses   map[int]Response
}

// Document is safe for concurrent use; the router registers operations at
// start-up while the handler may already be serving.
type Document struct {
	mu       sync.RWMutex
	doc      *openapi3.T
	errorRef *openapi3.SchemaRef
}

var pathParamRE = regexp.MustCompile(`\{([^}/]+)\}`)

// New creates a document with the basic and bearer security schemes.
func New(title, version string) *Document {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
			SecuritySchemes: openapi3.SecuritySchemes{
				Basic: &openapi3.SecuritySchemeRef{
					Value: openapi3.NewSecurityScheme().WithType("http").WithScheme("basic"),
				},
				Bearer: &openapi3.SecuritySchemeRef{
					Value: openapi3.NewJWTSecurityScheme(),
				},
			},
		},
	}

	errSchema, err := schemaFor(exception.Envelope{}, doc.Components.Schemas)
	if err != nil {
		errSchema = openapi3.NewObjectSchema().NewRef()
	}
	doc.Components.Schemas["ErrorEnvelope"] = errSchema

	return &Document{
		doc:      doc,
		errorRef: openapi3.NewSchemaRef("#/components/schemas/ErrorEnvelope", errSchema.Value),
	}
}

// AddOperation registers op under method and path. Path parameters written
// as {name} are documented automatically.
func (d *Document) AddOperation(method, path string, op Operation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	o := openapi3.NewOperation()
	o.OperationID = op.ID
	o.Summary = op.Summary
	o.Description = op.Description
	if op.Tag != "" {
		o.Tags = []string{op.Tag}
	}
	if op.Security != "" {
		sec := openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(op.Security))
		o.Security = sec
	}

	for _, m := range pathParamRE.FindAllStringSubmatch(path, -1) {
		o.AddParameter(openapi3.NewPathParameter(m[1]).WithSchema(openapi3.NewStringSchema()))
	}
	for _, q := range op.Query {
		o.AddParameter(openapi3.NewQueryParameter(q).WithSchema(openapi3.NewStringSchema()))
	}

	if op.Request != nil {
		ref, err := schemaFor(op.Request, d.doc.Components.Schemas)
		if err != nil {
			return fmt.Errorf("docs: request schema for %s %s: %w", method, path, err)
		}
		o.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
		}
	}

	responses := op.Responses
	if len(responses) == 0 {
		responses = map[int]Response{http.StatusOK: {Description: "OK"}}
	}
	for status, resp := range responses {
		r := openapi3.NewResponse().WithDescription(resp.Description)
		if status != http.StatusNoContent {
			ref, err := successSchema(resp.Body, d.doc.Components.Schemas)
			if err != nil {
				return fmt.Errorf("docs: %d schema for %s %s: %w", status, method, path, err)
			}
			r = r.WithJSONSchemaRef(ref)
		}
		o.AddResponse(status, r)
	}
	o.Responses.Set("default", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Error envelope").
			WithJSONSchemaRef(d.errorRef),
	})

	item := d.doc.Paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		d.doc.Paths.Set(path, item)
	}
	item.SetOperation(strings.ToUpper(method), o)
	return nil
}

// Spec returns the underlying document. Callers must not mutate it.
func (d *Document) Spec() *openapi3.T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc
}

// Validate checks the document against the OpenAPI 3 rules.
func (d *Document) Validate(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Validate(ctx)
}

// MarshalJSON renders the document.
func (d *Document) MarshalJSON() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return json.Marshal(d.doc)
}

// Handler serves Swagger UI at "/" and the document at "/openapi.json",
// relative to mountPath.
func (d *Document) Handler(mountPath string) http.Handler {
	specURL := strings.TrimRight(mountPath, "/") + "/openapi.json"

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = uiTemplate.Execute(w, map[string]string{
			"Title":   d.Spec().Info.Title,
			"SpecURL": specURL,
		})
	})
	r.Get("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		body, err := d.MarshalJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	})
	return r
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// schemaFor reflects v's json tags into a schema. Money values are
// documented as decimal strings, which is how they are serialized.
func schemaFor(v any, schemas openapi3.Schemas) (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(v, schemas,
		openapi3gen.SchemaCustomizer(func(_ string, t reflect.Type, _ reflect.StructTag, s *openapi3.Schema) error {
			if t == decimalType {
				*s = *openapi3.NewStringSchema().WithFormat("decimal")
			}
			return nil
		}),
	)
}

func successSchema(body any, schemas openapi3.Schemas) (*openapi3.SchemaRef, error) {
	env := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema())
	if body != nil {
		ref, err := schemaFor(body, schemas)
		if err != nil {
			return nil, err
		}
		env = env.WithPropertyRef("data", ref)
	}
	return openapi3.NewSchemaRef("", env), nil
}

var uiTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}} API docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: "{{.SpecURL}}",
        dom_id: "#swagger-ui",
        persistAuthorization: true,
      });
    };
  </script>
</body>
</html>
`))
