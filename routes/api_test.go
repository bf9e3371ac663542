package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-laravel-validation/framework/routing"
	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
	"github.com/km-arc/go-laravel-validation/routes"
)

func newRouter(t *testing.T) *routing.Router {
	t.Helper()
	return newRouterWithScope(t, "")
}

func newRouterWithScope(t *testing.T, defaultScope string) *routing.Router {
	t.Helper()
	users := validation.NewMemoryPresenceVerifier()
	users.Add("", "users", map[string]any{"id": 33, "email": "taken@example.com"})

	registry := unit.NewRegistry()
	registry.Register("account", unit.Definition{
		Scopes: map[string]unit.FieldRules{
			unit.DefaultScope: {
				"email": unit.Pipe("required|email|unique:users,email,{id}"),
				"name":  unit.Pipe("required"),
			},
			"edit": {"name": unit.Pipe("")},
		},
	})
	registry.Register("contact", unit.Definition{
		Rules: unit.FieldRules{"email": unit.Pipe("required|unique:{table},email,{id}")},
	})
	registry.Register("note", unit.Definition{
		Scopes: map[string]unit.FieldRules{"base": {"body": unit.Pipe("required")}},
	})

	r := routing.New(nil)
	routes.Register(r, routes.Deps{
		Engine:     validation.NewEngine(validation.WithPresenceVerifier(users)),
		Validators: registry,

		DefaultScope: defaultScope,
	})
	return r
}

func send(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), rr.Body.String())
	return rr, payload
}

func errorKeys(payload map[string]any) []string {
	errs, _ := payload["errors"].(map[string]any)
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	return keys
}

func TestWelcome(t *testing.T) {
	rr, payload := send(t, newRouter(t), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"message": "Welcome to Go-Laravel!"}, payload["data"])
}

func TestStoreUser_MergesProfileErrors(t *testing.T) {
	rr, payload := send(t, newRouter(t), http.MethodPost, "/api/v1/users",
		`{"username":"johndoe","password":"secret","email":"johndoeemail.com"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.ElementsMatch(t, []string{"email", "first_name", "last_name"}, errorKeys(payload))
}

func TestStoreUser_Created(t *testing.T) {
	rr, payload := send(t, newRouter(t), http.MethodPost, "/api/v1/users",
		`{"username":"johndoe","password":"secret","email":"johndoe@email.com",
		  "profile":{"first_name":"John","last_name":"Doe"}}`)

	require.Equal(t, http.StatusCreated, rr.Code, payload)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "johndoe", data["username"])
	assert.NotContains(t, data, "password")
	assert.Equal(t, map[string]any{"first_name": "John", "last_name": "Doe"}, data["profile"])
}

func TestUpdateUser_EditScope(t *testing.T) {
	r := newRouter(t)

	rr, payload := send(t, r, http.MethodPut, "/api/v1/users/33", `{"email":"johndoeemail.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.ElementsMatch(t, []string{"email", "first_name", "last_name"}, errorKeys(payload))

	rr, payload = send(t, r, http.MethodPut, "/api/v1/users/33",
		`{"email":"john@email.com","profile":{"first_name":"John","last_name":"Doe"}}`)
	require.Equal(t, http.StatusOK, rr.Code, payload)
	assert.Equal(t, "33", payload["data"].(map[string]any)["id"])
}

func TestValidateNamed(t *testing.T) {
	r := newRouter(t)

	rr, payload := send(t, r, http.MethodPost, "/validate/account", `{"email":"taken@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.ElementsMatch(t, []string{"email", "name"}, errorKeys(payload))

	rr, payload = send(t, r, http.MethodPost, "/validate/account?scope=edit&id=33", `{"email":"taken@example.com"}`)
	require.Equal(t, http.StatusOK, rr.Code, payload)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "account", data["validator"])
	assert.Equal(t, []any{"edit"}, data["scopes"])
	assert.Equal(t, true, data["valid"])
}

func TestValidateNamed_Unknown(t *testing.T) {
	rr, _ := send(t, newRouter(t), http.MethodPost, "/validate/missing", `{}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestValidateNamed_MalformedBody(t *testing.T) {
	rr, _ := send(t, newRouter(t), http.MethodPost, "/validate/account", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestValidateNamed_EveryQueryValueIsBound(t *testing.T) {
	r := newRouter(t)

	for i := 0; i < 10; i++ {
		rr, payload := send(t, r, http.MethodPost, "/validate/contact?table=users&id=33", `{"email":"taken@example.com"}`)
		require.Equal(t, http.StatusOK, rr.Code, payload)
	}

	rr, payload := send(t, r, http.MethodPost, "/validate/contact?table=users&id=34", `{"email":"taken@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{"email"}, errorKeys(payload))
}

func TestValidateNamed_DefaultScope(t *testing.T) {
	rr, _ := send(t, newRouter(t), http.MethodPost, "/validate/note", `{}`)
	assert.Equal(t, http.StatusOK, rr.Code, "no base scope without configuration")

	rr, payload := send(t, newRouterWithScope(t, "base"), http.MethodPost, "/validate/note", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{"body"}, errorKeys(payload))
}
