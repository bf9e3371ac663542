package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
)

// UnitFactory builds the validator that guards a route from the incoming
// request, usually with unit.WithSource(req).
type UnitFactory func(req *Request) (*unit.Unit, error)

// ErrBadInput is returned by a UnitFactory when the request body cannot be
// decoded. ValidateRequest answers 400 for it.
var ErrBadInput = errors.New("malformed request input")

type unitKey struct{}

// ValidateRequest is a form-request middleware: it builds a unit for every
// request and answers 422 with the merged message bag when it fails. On
// success the unit is stored in the request context; see Validated.
//
//	r.With(gohttp.ValidateRequest(func(req *gohttp.Request) (*unit.Unit, error) {
//	    return unit.New(engine, validators.User(), unit.WithSource(req)), nil
//	}, logger)).Post("/api/v1/users", store)
func ValidateRequest(build UnitFactory, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := NewRequest(r)
			res := NewResponse(w)

			u, err := build(req)
			if err != nil {
				if errors.Is(err, unit.ErrUnknownValidator) {
					res.NotFound(err.Error())
					return
				}
				if errors.Is(err, ErrBadInput) {
					res.Error(http.StatusBadRequest, ErrBadInput.Error())
					return
				}
				logger.Error("build validator", zap.String("path", r.URL.Path), zap.Error(err))
				res.ServerError()
				return
			}

			if !u.PassesContext(r.Context()) {
				errs := u.Errors()
				logger.Debug("request failed validation",
					zap.String("path", r.URL.Path),
					zap.String("unit", u.Name()),
					zap.Strings("fields", errs.Keys()),
				)
				res.ValidationError(errs)
				return
			}

			ctx := context.WithValue(r.Context(), unitKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Validated returns the unit that ValidateRequest accepted for r.
func Validated(r *http.Request) (*unit.Unit, bool) {
	u, ok := r.Context().Value(unitKey{}).(*unit.Unit)
	return u, ok
}

// LocaleMatcher picks a supported locale for an Accept-Language header.
// *translation.Translator implements it.
type LocaleMatcher interface {
	Match(acceptLanguage string) string
}

// Localize stores the negotiated locale in the request context so that
// validation messages are translated, and echoes it as Content-Language.
func Localize(m LocaleMatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := m.Match(r.Header.Get("Accept-Language"))
			if locale != "" {
				w.Header().Set("Content-Language", locale)
				r = r.WithContext(validation.WithLocale(r.Context(), locale))
			}
			next.ServeHTTP(w, r)
		})
	}
}
