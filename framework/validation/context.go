package validation

import "context"

type (
	connectionKey struct{}
	localeKey     struct{}
)

// WithConnection selects the presence-verifier connection used by unique/exists.
//
//	// Laravel: Validator::getPresenceVerifier()->setConnection('reporting')
//	ctx = validation.WithConnection(ctx, "reporting")
func WithConnection(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, connectionKey{}, name)
}

// ConnectionFrom returns the connection stored by WithConnection, or "".
func ConnectionFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(connectionKey{}).(string)
	return name
}

// WithLocale overrides the engine locale for messages produced under ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	if locale == "" {
		return ctx
	}
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFrom returns the locale stored by WithLocale, or "".
func LocaleFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}
