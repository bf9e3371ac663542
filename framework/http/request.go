package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxMemory = 32 << 20 // 32 MB

// ErrEmptyBody is returned by Bind for a JSON request without a body.
var ErrEmptyBody = errors.New("empty request body")

// Request wraps *http.Request with Laravel-style input helpers. It implements
// unit.AttributeSource, so a validator can read its input straight from the
// request.
type Request struct {
	raw  *http.Request
	body []byte // cached JSON body
	read bool
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the request body into v.
// Supports JSON and application/x-www-form-urlencoded / multipart.
func (req *Request) Bind(v any) error {
	if req.isJSONBody() {
		body, err := req.jsonBody()
		if err != nil {
			return err
		}
		if len(body) == 0 {
			return ErrEmptyBody
		}
		return json.Unmarshal(body, v)
	}
	if err := req.parseForm(); err != nil {
		return err
	}
	b, err := json.Marshal(flatten(req.raw.PostForm))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// jsonBody reads the body once and puts it back so handlers further down
// the chain can read it again.
func (req *Request) jsonBody() ([]byte, error) {
	if req.read {
		return req.body, nil
	}
	req.read = true
	if req.raw.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.raw.Body)
	_ = req.raw.Body.Close()
	if err != nil {
		return nil, err
	}
	req.body = body
	req.raw.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func (req *Request) parseForm() error {
	if strings.Contains(req.ContentType(), "multipart/form-data") {
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return err
		}
		return nil
	}
	return req.raw.ParseForm()
}

// ── Input helpers ────────────────────────────────────────────────────────────

// All returns every input value: query string, then form body, then JSON body,
// later sources winning. Repeated keys become []string; JSON keeps its types
// (numbers are float64, objects map[string]any).
//
//	// Laravel: $request->all()
//	u := unit.New(engine, validators.User(), unit.WithSource(req))
func (req *Request) All() map[string]any {
	out := flatten(req.raw.URL.Query())

	if !req.isJSONBody() {
		if err := req.parseForm(); err == nil {
			for k, v := range flatten(req.raw.PostForm) {
				out[k] = v
			}
		}
		return out
	}

	body, err := req.jsonBody()
	if err != nil || len(body) == 0 {
		return out
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return out
	}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// Input returns a single input value as a string (query, form or JSON body).
func (req *Request) Input(key string, fallback ...string) string {
	v, ok := req.All()[key]
	if !ok || v == nil {
		return first(fallback, "")
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []string:
		s = val[0]
	default:
		b, _ := json.Marshal(val)
		s = string(b)
	}
	if s == "" {
		return first(fallback, "")
	}
	return s
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" {
		return first(fallback, "")
	}
	return v
}

// Has returns true if the key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Input(key) != ""
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// AcceptLanguage returns the raw Accept-Language header.
func (req *Request) AcceptLanguage() string {
	return req.raw.Header.Get("Accept-Language")
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		req.isJSONBody()
}

func (req *Request) isJSONBody() bool {
	return strings.Contains(req.ContentType(), "application/json")
}

// flatten turns single-valued form entries into strings and keeps the rest
// as []string.
func flatten(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			out[k] = vals[0]
		default:
			out[k] = append([]string(nil), vals...)
		}
	}
	return out
}
