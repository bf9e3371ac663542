// Package validators holds the application's validator definitions and
// custom rules.
package validators

import (
	"regexp"

	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
)

// User validates account fields. The edit scope relaxes username and
// password and keeps the email format check.
func User() unit.Definition {
	return unit.Definition{
		Scopes: map[string]unit.FieldRules{
			unit.DefaultScope: {
				"username": unit.Pipe("required"),
				"password": unit.Pipe("required"),
				"email":    unit.Pipe("required|email"),
			},
			"edit": {
				"username": unit.Pipe(""),
				"password": unit.Pipe(""),
				"email":    unit.Pipe("email"),
			},
		},
	}
}

// Profile validates the personal details attached to a user.
func Profile() unit.Definition {
	return unit.Definition{
		Scopes: map[string]unit.FieldRules{
			unit.DefaultScope: {
				"first_name": unit.Pipe("required"),
				"last_name":  unit.Pipe("required"),
			},
		},
	}
}

// Definitions returns every built-in definition by name.
func Definitions() map[string]unit.Definition {
	return map[string]unit.Definition{
		"user":    User(),
		"profile": Profile(),
	}
}

var (
	phoneRe  = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)
	letterRe = regexp.MustCompile(`\pL`)
	digitRe  = regexp.MustCompile(`[0-9]`)
)

// Register adds the application's custom rules to engine.
//
//	phone            E.164-style number, optional leading +
//	strong_password  at least one letter and one digit
func Register(engine *validation.Engine) {
	engine.Extend("phone", func(_ string, value any, _ []string, _ map[string]any) bool {
		s, ok := value.(string)
		return ok && phoneRe.MatchString(s)
	}, "The :attribute must be a valid phone number.")

	engine.Extend("strong_password", func(_ string, value any, _ []string, _ map[string]any) bool {
		s, ok := value.(string)
		return ok && letterRe.MatchString(s) && digitRe.MatchString(s)
	}, "The :attribute must contain at least one letter and one number.")
}
