package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
)

func userDefinition() unit.Definition {
	return unit.Definition{
		Scopes: map[string]unit.FieldRules{
			"default": {
				"username": unit.Pipe("required"),
				"password": unit.Pipe("required"),
				"email":    unit.Pipe("required|email"),
			},
			"edit": {
				"username": unit.Pipe(""),
				"email":    unit.Pipe("email"),
			},
		},
	}
}

func piped(rules unit.FieldRules) map[string]string {
	out := make(map[string]string, len(rules))
	for field, set := range rules {
		out[field] = set.String()
	}
	return out
}

func TestResolve_EditOverridesDefault(t *testing.T) {
	got := userDefinition().Resolve([]string{"edit"}, unit.DefaultScope)

	assert.Equal(t, map[string]string{
		"username": "",
		"password": "required",
		"email":    "email",
	}, piped(got))
}

func TestResolve_DefaultOnly(t *testing.T) {
	got := userDefinition().Resolve(nil, unit.DefaultScope)

	assert.Equal(t, map[string]string{
		"username": "required",
		"password": "required",
		"email":    "required|email",
	}, piped(got))
}

func TestResolve_LaterScopesWin(t *testing.T) {
	def := userDefinition()
	def.Scopes["strict"] = unit.FieldRules{"email": unit.Pipe("required|email|max:50")}

	assert.Equal(t, "required|email|max:50", def.Resolve([]string{"edit", "strict"}, "default")["email"].String())
	assert.Equal(t, "email", def.Resolve([]string{"strict", "edit"}, "default")["email"].String())
}

func TestResolve_UnknownScopeIsSkipped(t *testing.T) {
	got := userDefinition().Resolve([]string{"archive"}, unit.DefaultScope)
	assert.Equal(t, "required|email", got["email"].String())
	assert.Len(t, got, 3)
}

func TestResolve_FlatRules(t *testing.T) {
	def := unit.Definition{Rules: unit.FieldRules{"name": unit.Pipe("required")}}

	assert.False(t, def.HasScope(nil, unit.DefaultScope))
	assert.Equal(t, map[string]string{"name": "required"}, piped(def.Resolve(nil, unit.DefaultScope)))
}

func TestResolve_ActiveScopeWithoutDefault(t *testing.T) {
	def := unit.Definition{
		Rules:  unit.FieldRules{"name": unit.Pipe("required")},
		Scopes: map[string]unit.FieldRules{"create": {"email": unit.Pipe("required")}},
	}

	assert.True(t, def.HasScope([]string{"create"}, unit.DefaultScope))
	assert.Equal(t, map[string]string{"email": "required"}, piped(def.Resolve([]string{"create"}, unit.DefaultScope)),
		"flat rules are not part of scoped resolution")
	assert.Empty(t, def.Resolve([]string{"missing"}, unit.DefaultScope))
}

func TestResolve_CustomDefaultScopeName(t *testing.T) {
	def := unit.Definition{Scopes: map[string]unit.FieldRules{
		"base": {"name": unit.Pipe("required")},
	}}

	assert.False(t, def.HasScope(nil, unit.DefaultScope))
	assert.True(t, def.HasScope(nil, "base"))
	assert.Equal(t, "required", def.Resolve(nil, "base")["name"].String())
}

func TestResolve_DoesNotMutateDefinition(t *testing.T) {
	def := userDefinition()
	got := def.Resolve([]string{"edit"}, unit.DefaultScope)
	got["password"] = unit.Pipe("changed")

	assert.Equal(t, "required", def.Scopes["default"]["password"].String())
	assert.Equal(t, "required|email", def.Scopes["default"]["email"].String())
}
