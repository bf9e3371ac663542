package http_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	gohttp "github.com/km-arc/go-laravel-validation/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newJSONRequest(t *testing.T, body string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return gohttp.NewRequest(req)
}

func newFormRequest(t *testing.T, values url.Values) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return gohttp.NewRequest(req)
}

func newGetRequest(t *testing.T, rawQuery string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return gohttp.NewRequest(req)
}

// ── Bind JSON ────────────────────────────────────────────────────────────────

func TestRequest_BindJSON(t *testing.T) {
	type user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	req := newJSONRequest(t, `{"name":"Alice","email":"alice@example.com"}`)

	var u user
	if err := req.Bind(&u); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if u.Name != "Alice" {
		t.Errorf("Name: got %q want %q", u.Name, "Alice")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("Email: got %q want %q", u.Email, "alice@example.com")
	}
}

func TestRequest_BindJSON_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	r := gohttp.NewRequest(req)

	var v any
	if err := r.Bind(&v); err != gohttp.ErrEmptyBody {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestRequest_BindJSON_InvalidJSON(t *testing.T) {
	req := newJSONRequest(t, `{bad json}`)
	var v map[string]any
	if err := req.Bind(&v); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

// ── Bind Form ────────────────────────────────────────────────────────────────

func TestRequest_BindForm(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	vals := url.Values{"name": {"Bob"}}
	req := newFormRequest(t, vals)

	var p payload
	if err := req.Bind(&p); err != nil {
		t.Fatalf("Bind form error: %v", err)
	}
	if p.Name != "Bob" {
		t.Errorf("Name: got %q want %q", p.Name, "Bob")
	}
}

// ── Input / Query ─────────────────────────────────────────────────────────────

func TestRequest_Input(t *testing.T) {
	vals := url.Values{"username": {"charlie"}}
	req := newFormRequest(t, vals)

	if got := req.Input("username"); got != "charlie" {
		t.Errorf("Input: got %q want %q", got, "charlie")
	}
}

func TestRequest_Input_Fallback(t *testing.T) {
	req := newGetRequest(t, "")
	if got := req.Input("missing", "default"); got != "default" {
		t.Errorf("Input fallback: got %q want %q", got, "default")
	}
}

func TestRequest_Query(t *testing.T) {
	req := newGetRequest(t, "page=2&limit=10")

	if got := req.Query("page"); got != "2" {
		t.Errorf("Query page: got %q want %q", got, "2")
	}
	if got := req.Query("limit"); got != "10" {
		t.Errorf("Query limit: got %q want %q", got, "10")
	}
}

func TestRequest_Query_Fallback(t *testing.T) {
	req := newGetRequest(t, "")
	if got := req.Query("missing", "1"); got != "1" {
		t.Errorf("Query fallback: got %q want %q", got, "1")
	}
}

func TestRequest_All(t *testing.T) {
	vals := url.Values{"a": {"1"}, "b": {"2"}}
	req := newFormRequest(t, vals)
	all := req.All()

	if all["a"] != "1" {
		t.Errorf("All[a]: got %v want %q", all["a"], "1")
	}
	if all["b"] != "2" {
		t.Errorf("All[b]: got %v want %q", all["b"], "2")
	}
}

func TestRequest_Has(t *testing.T) {
	vals := url.Values{"name": {"Alice"}, "empty": {""}}
	req := newFormRequest(t, vals)

	if !req.Has("name") {
		t.Error("Has('name') should be true")
	}
	if req.Has("empty") {
		t.Error("Has('empty') should be false for blank value")
	}
	if req.Has("missing") {
		t.Error("Has('missing') should be false")
	}
}

// ── Headers ──────────────────────────────────────────────────────────────────

func TestRequest_Header(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Custom", "value123")
	req := gohttp.NewRequest(r)

	if got := req.Header("X-Custom"); got != "value123" {
		t.Errorf("Header: got %q want %q", got, "value123")
	}
}

// ── IsJSON ────────────────────────────────────────────────────────────────────

func TestRequest_IsJSON_ContentType(t *testing.T) {
	req := newJSONRequest(t, `{}`)
	if !req.IsJSON() {
		t.Error("IsJSON should be true when Content-Type is application/json")
	}
}

func TestRequest_IsJSON_Accept(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "application/json")
	req := gohttp.NewRequest(r)
	if !req.IsJSON() {
		t.Error("IsJSON should be true when Accept is application/json")
	}
}

// ── Method / Path ─────────────────────────────────────────────────────────────

func TestRequest_Method(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/resource/1", nil)
	req := gohttp.NewRequest(r)
	if req.Method() != http.MethodDelete {
		t.Errorf("Method: got %q want DELETE", req.Method())
	}
}

func TestRequest_Path(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req := gohttp.NewRequest(r)
	if req.Path() != "/api/v1/users" {
		t.Errorf("Path: got %q want /api/v1/users", req.Path())
	}
}

func TestRequest_AcceptLanguage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "es-MX,es;q=0.9")
	if got := gohttp.NewRequest(r).AcceptLanguage(); got != "es-MX,es;q=0.9" {
		t.Errorf("AcceptLanguage: got %q", got)
	}
}

// ── All: query + form + JSON ──────────────────────────────────────────────────

func TestRequest_All_JSONKeepsTypes(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/?source=query&id=1",
		strings.NewReader(`{"email":"a@b.co","age":30,"tags":["x"],"id":2}`))
	r.Header.Set("Content-Type", "application/json")
	all := gohttp.NewRequest(r).All()

	if all["email"] != "a@b.co" {
		t.Errorf("email: got %v", all["email"])
	}
	if all["age"] != float64(30) {
		t.Errorf("age: got %v (%T)", all["age"], all["age"])
	}
	if tags, ok := all["tags"].([]any); !ok || len(tags) != 1 {
		t.Errorf("tags: got %v", all["tags"])
	}
	if all["source"] != "query" {
		t.Errorf("source: got %v", all["source"])
	}
	if all["id"] != float64(2) {
		t.Errorf("body should win over query, got %v", all["id"])
	}
}

func TestRequest_All_BodyStaysReadable(t *testing.T) {
	req := newJSONRequest(t, `{"name":"Alice"}`)
	_ = req.All()

	var p struct {
		Name string `json:"name"`
	}
	if err := req.Bind(&p); err != nil {
		t.Fatalf("Bind after All: %v", err)
	}
	if p.Name != "Alice" {
		t.Errorf("Name: got %q", p.Name)
	}

	raw, err := io.ReadAll(req.Raw().Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"name":"Alice"}` {
		t.Errorf("raw body: got %q", raw)
	}
}

func TestRequest_All_RepeatedKeys(t *testing.T) {
	req := newFormRequest(t, url.Values{"roles": {"admin", "editor"}})
	roles, ok := req.All()["roles"].([]string)
	if !ok || len(roles) != 2 {
		t.Errorf("roles: got %v", req.All()["roles"])
	}
}

func TestRequest_All_Multipart(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("username", "johndoe")
	_ = w.Close()

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	if got := gohttp.NewRequest(r).All()["username"]; got != "johndoe" {
		t.Errorf("username: got %v", got)
	}
}

func TestRequest_All_InvalidJSONFallsBackToQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/?page=2", strings.NewReader(`{bad`))
	r.Header.Set("Content-Type", "application/json")
	all := gohttp.NewRequest(r).All()

	if len(all) != 1 || all["page"] != "2" {
		t.Errorf("All: got %v", all)
	}
}

func TestRequest_Input_JSONNumber(t *testing.T) {
	req := newJSONRequest(t, `{"id":33}`)
	if got := req.Input("id"); got != "33" {
		t.Errorf("Input(id): got %q want 33", got)
	}
}

func TestRequest_RouteParam(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "33")
	r := httptest.NewRequest(http.MethodPut, "/api/v1/users/33", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	if got := gohttp.NewRequest(r).RouteParam("id"); got != "33" {
		t.Errorf("RouteParam: got %q want 33", got)
	}
}
