// Package routes registers the application's HTTP endpoints, like Laravel's
// routes/api.php.
package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	gohttp "github.com/km-arc/go-laravel-validation/framework/http"
	"github.com/km-arc/go-laravel-validation/framework/routing"
	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
	"github.com/km-arc/go-laravel-validation/validators"
)

// Deps are the services the routes need, resolved by the kernel.
type Deps struct {
	Engine     *validation.Engine
	Validators *unit.Registry
	Logger     *zap.Logger

	// DefaultScope is the base scope of every unit; empty means "default".
	DefaultScope string
}

// Register mounts every route on r.
//
//	GET  /                          welcome
//	POST /api/v1/users              user + profile, default scope
//	PUT  /api/v1/users/{id}         user edit scope, {id} bound for unique rules
//	POST /validate/{validator}      any registered validator, JSON body
func Register(r *routing.Router, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to Go-Laravel!"})
	})

	r.Prefix("/api/v1", func(api *routing.Router) {
		api.With(gohttp.ValidateRequest(userUnit(d, false), d.Logger)).
			Post("/users", storeUser)
		api.With(gohttp.ValidateRequest(userUnit(d, true), d.Logger)).
			Put("/users/{id}", updateUser)
	})

	r.With(gohttp.ValidateRequest(namedUnit(d), d.Logger)).
		Post("/validate/{validator}", func(w http.ResponseWriter, req *http.Request) {
			u, _ := gohttp.Validated(req)
			gohttp.NewResponse(w).Success(map[string]any{
				"validator": u.Name(),
				"scopes":    u.Scopes(),
				"valid":     true,
			})
		})
}

// userUnit validates the user fields and, as a peer, the nested "profile"
// object.
func userUnit(d Deps, edit bool) gohttp.UnitFactory {
	return func(req *gohttp.Request) (*unit.Unit, error) {
		input := req.All()
		logger := d.Logger.Named("validation")

		profile := unit.New(d.Engine, validators.Profile(),
			unit.WithName("profile"),
			unit.WithAttributes(cast.ToStringMap(input["profile"])),
			unit.WithDefaultScope(d.DefaultScope),
			unit.WithLogger(logger),
		)
		user := unit.New(d.Engine, validators.User(),
			unit.WithName("user"),
			unit.WithAttributes(input),
			unit.WithDefaultScope(d.DefaultScope),
			unit.WithLogger(logger),
		)
		if edit {
			user.With("edit").Bind(unit.Wildcard, map[string]any{"id": req.RouteParam("id")})
		}
		return user.Extend(profile), nil
	}
}

// namedUnit builds the validator named in the path from the registry. The
// "scope" query parameter activates scopes; every other query parameter is
// a global binding.
func namedUnit(d Deps) gohttp.UnitFactory {
	return func(req *gohttp.Request) (*unit.Unit, error) {
		var input map[string]any
		if err := req.Bind(&input); err != nil && !errors.Is(err, gohttp.ErrEmptyBody) {
			return nil, fmt.Errorf("%w: %w", gohttp.ErrBadInput, err)
		}

		query := req.Raw().URL.Query()
		u, err := d.Validators.Make(req.RouteParam("validator"), d.Engine,
			unit.WithAttributes(input),
			unit.WithScopes(query["scope"]...),
			unit.WithDefaultScope(d.DefaultScope),
			unit.WithLogger(d.Logger.Named("validation")),
		)
		if err != nil {
			return nil, err
		}
		bindings := make(map[string]any, len(query))
		for key, values := range query {
			if key == "scope" || len(values) == 0 {
				continue
			}
			bindings[key] = values[0]
		}
		if len(bindings) > 0 {
			u.Bind(unit.Wildcard, bindings)
		}
		return u, nil
	}
}

func storeUser(w http.ResponseWriter, req *http.Request) {
	u, _ := gohttp.Validated(req)
	gohttp.NewResponse(w).Created(publicUser(u))
}

func updateUser(w http.ResponseWriter, req *http.Request) {
	u, _ := gohttp.Validated(req)
	body := publicUser(u)
	body["id"] = routing.Param(req, "id")
	gohttp.NewResponse(w).Success(body)
}

// publicUser echoes the accepted input without the password.
func publicUser(u *unit.Unit) map[string]any {
	attrs := u.Attributes()
	out := map[string]any{
		"username": attrs["username"],
		"email":    attrs["email"],
	}
	if peers := u.Peers(); len(peers) > 0 {
		out["profile"] = peers[0].Attributes()
	}
	return out
}
