package validation

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric|gte:18"}
type Rules map[string]string

// Expand splits every piped rule string into its ordered rule list.
func (r Rules) Expand() map[string][]string {
	out := make(map[string][]string, len(r))
	for field, piped := range r {
		out[field] = SplitRules(piped)
	}
	return out
}

// SplitRules splits "required|min:3" into ["required", "min:3"], dropping blanks.
func SplitRules(piped string) []string {
	var out []string
	for _, rule := range strings.Split(piped, "|") {
		if rule = strings.TrimSpace(rule); rule != "" {
			out = append(out, rule)
		}
	}
	return out
}

// Validator validates one data set against one rule map. Build it with
// Engine.Make or the package-level Make.
type Validator struct {
	ctx      context.Context
	engine   *Engine
	data     map[string]any
	rules    map[string][]string
	messages map[string]string
	errors   *Errors
	ran      bool
}

// Make creates a Validator on a fresh engine, like Validator::make($data, $rules).
// Use Engine.Make when custom rules, translations or a presence verifier are needed.
func Make(data map[string]any, rules Rules) *Validator {
	return NewEngine().Make(context.Background(), data, rules.Expand(), nil)
}

// Fails runs validation and returns true if any rule fails.
// The first call evaluates; later calls reuse the result.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.ran = true
		v.validate()
	}
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// Data returns the data under validation.
func (v *Validator) Data() map[string]any { return v.data }

// ── Core validation loop ─────────────────────────────────────────────────────

type outcome int

const (
	passed  outcome = iota
	failed          // message recorded, stop this field
	stopped         // stop this field silently (nullable / sometimes)
)

var builtinRules = map[string]struct{}{
	"required": {}, "string": {}, "numeric": {}, "integer": {}, "boolean": {},
	"email": {}, "url": {}, "uuid": {}, "min": {}, "max": {}, "size": {},
	"between": {}, "in": {}, "not_in": {}, "confirmed": {}, "same": {},
	"different": {}, "alpha": {}, "alpha_num": {}, "alpha_dash": {}, "regex": {},
	"nullable": {}, "sometimes": {}, "gt": {}, "gte": {}, "lt": {}, "lte": {},
	"unique": {}, "exists": {},
}

func (v *Validator) validate() {
	for field, rules := range v.rules {
		value, present := v.data[field]

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// Parse rule name and optional parameter: min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if v.applyRule(field, value, present, name, param) != passed {
				break // stop on first failure (like Laravel's bail behaviour)
			}
		}
	}
}

// applyRule evaluates a single rule against a field value.
func (v *Validator) applyRule(field string, value any, present bool, rule, param string) outcome {
	str := stringify(value)
	params := splitParams(param)

	switch rule {
	case "required":
		if isEmpty(value) {
			return v.fail(field, rule, nil)
		}

	case "string":
		if value != nil {
			if _, ok := value.(string); !ok {
				return v.fail(field, rule, nil)
			}
		}

	case "numeric":
		if _, err := strconv.ParseFloat(str, 64); err != nil {
			return v.fail(field, rule, nil)
		}

	case "integer":
		if _, err := strconv.Atoi(str); err != nil {
			return v.fail(field, rule, nil)
		}

	case "boolean":
		switch strings.ToLower(str) {
		case "true", "false", "1", "0", "yes", "no":
		default:
			return v.fail(field, rule, nil)
		}

	case "email":
		if addr, err := mail.ParseAddress(str); err != nil || addr.Address != str {
			return v.fail(field, rule, nil)
		}

	case "url":
		if !urlRe.MatchString(str) {
			return v.fail(field, rule, nil)
		}

	case "uuid":
		if _, err := uuid.Parse(str); err != nil {
			return v.fail(field, rule, nil)
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if length(value) < n {
			return v.fail(field, rule, map[string]string{"min": param})
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if length(value) > n {
			return v.fail(field, rule, map[string]string{"max": param})
		}

	case "size":
		n, _ := strconv.Atoi(param)
		if length(value) != n {
			return v.fail(field, rule, map[string]string{"size": param})
		}

	case "between":
		if len(params) != 2 {
			break
		}
		lo, _ := strconv.Atoi(params[0])
		hi, _ := strconv.Atoi(params[1])
		if l := length(value); l < lo || l > hi {
			return v.fail(field, rule, map[string]string{"min": params[0], "max": params[1]})
		}

	case "in":
		if !contains(params, str) {
			return v.fail(field, rule, map[string]string{"values": strings.Join(params, ", ")})
		}

	case "not_in":
		if contains(params, str) {
			return v.fail(field, rule, map[string]string{"values": strings.Join(params, ", ")})
		}

	case "confirmed":
		// Expects data[field+"_confirmation"] to match
		if stringify(v.data[field+"_confirmation"]) != str {
			return v.fail(field, rule, nil)
		}

	case "same":
		if stringify(v.data[param]) != str {
			return v.fail(field, rule, map[string]string{"other": param})
		}

	case "different":
		if stringify(v.data[param]) == str {
			return v.fail(field, rule, map[string]string{"other": param})
		}

	case "alpha":
		if !alphaRe.MatchString(str) {
			return v.fail(field, rule, nil)
		}

	case "alpha_num":
		if !alphaNumRe.MatchString(str) {
			return v.fail(field, rule, nil)
		}

	case "alpha_dash":
		if !alphaDashRe.MatchString(str) {
			return v.fail(field, rule, nil)
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(str) {
			return v.fail(field, rule, nil)
		}

	case "nullable":
		if isEmpty(value) {
			return stopped
		}

	case "sometimes":
		if !present {
			return stopped
		}

	case "gt", "gte", "lt", "lte":
		f, err := cast.ToFloat64E(value)
		t, terr := strconv.ParseFloat(param, 64)
		if err != nil || terr != nil || !compare(rule, f, t) {
			return v.fail(field, rule, map[string]string{"value": param})
		}

	case "unique":
		if v.presence(field, rule, value, params) != 0 {
			return v.fail(field, rule, nil)
		}

	case "exists":
		if v.presence(field, rule, value, params) <= 0 {
			return v.fail(field, rule, nil)
		}

	default:
		ext, ok := v.engine.extension(rule)
		if !ok {
			v.engine.logger.Warn("unknown validation rule", zap.String("rule", rule), zap.String("field", field))
			break
		}
		if !ext.rule(field, value, params, v.data) {
			return v.fail(field, rule, paramPairs(params))
		}
	}

	return passed
}

func (v *Validator) fail(field, rule string, replace map[string]string) outcome {
	v.errors.Add(field, v.message(field, rule, replace))
	return failed
}

// presence runs unique/exists against the verifier. It returns -1 when the
// lookup could not run; both rules treat that as a failure.
//
//	unique:[connection.]table[,column[,except[,idColumn]]]
//	exists:[connection.]table[,column]
func (v *Validator) presence(field, rule string, value any, params []string) int64 {
	log := v.engine.logger.With(zap.String("rule", rule), zap.String("field", field))
	if v.engine.presence == nil {
		log.Error("presence check skipped", zap.Error(ErrMissingPresenceVerifier))
		return -1
	}
	if len(params) == 0 {
		log.Error("presence check skipped", zap.Error(errors.New("missing table parameter")))
		return -1
	}

	connection := ConnectionFrom(v.ctx)
	table := params[0]
	if conn, tbl, ok := strings.Cut(table, "."); ok {
		connection, table = conn, tbl
	}
	column := field
	if len(params) > 1 && params[1] != "" {
		column = params[1]
	}

	var exclude *Exclusion
	if rule == "unique" && len(params) > 2 && params[2] != "" && !strings.EqualFold(params[2], "NULL") {
		idColumn := "id"
		if len(params) > 3 && params[3] != "" {
			idColumn = params[3]
		}
		exclude = &Exclusion{Column: idColumn, Value: params[2]}
	}

	n, err := v.engine.presence.Count(v.ctx, connection, table, column, value, exclude)
	if err != nil {
		log.Error("presence check failed",
			zap.String("connection", connection), zap.String("table", table), zap.Error(err))
		return -1
	}
	return n
}

// ── Helpers ──────────────────────────────────────────────────────────────────

var (
	urlRe       = regexp.MustCompile(`^https?://`)
	alphaRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func stringify(value any) string {
	if value == nil {
		return ""
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}

func splitParams(param string) []string {
	if param == "" {
		return nil
	}
	parts := strings.Split(param, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func paramPairs(params []string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for i, p := range params {
		out["param"+strconv.Itoa(i)] = p
	}
	return out
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// length counts runes for strings and elements for collections.
func length(value any) int {
	if value != nil {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len()
		}
	}
	return utf8.RuneCountInString(stringify(value))
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func compare(op string, f, t float64) bool {
	switch op {
	case "gt":
		return f > t
	case "gte":
		return f >= t
	case "lt":
		return f < t
	default:
		return f <= t
	}
}
