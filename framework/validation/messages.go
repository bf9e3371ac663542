package validation

import (
	"sort"
	"strings"
)

const fallbackMessage = "The :attribute is invalid."

// defaultMessages are the English templates used when neither the caller nor
// the message store supplies one.
var defaultMessages = map[string]string{
	"required":   "The :attribute field is required.",
	"numeric":    "The :attribute must be a number.",
	"integer":    "The :attribute must be an integer.",
	"boolean":    "The :attribute field must be true or false.",
	"email":      "The :attribute must be a valid email address.",
	"url":        "The :attribute must be a valid URL.",
	"uuid":       "The :attribute must be a valid UUID.",
	"min":        "The :attribute must be at least :min characters.",
	"max":        "The :attribute may not be greater than :max characters.",
	"size":       "The :attribute must be :size characters.",
	"between":    "The :attribute must be between :min and :max characters.",
	"in":         "The selected :attribute is invalid.",
	"not_in":     "The selected :attribute is invalid.",
	"confirmed":  "The :attribute confirmation does not match.",
	"same":       "The :attribute and :other must match.",
	"different":  "The :attribute and :other must be different.",
	"alpha":      "The :attribute may only contain letters.",
	"alpha_num":  "The :attribute may only contain letters and numbers.",
	"alpha_dash": "The :attribute may only contain letters, numbers, dashes and underscores.",
	"regex":      "The :attribute format is invalid.",
	"gt":         "The :attribute must be greater than :value.",
	"gte":        "The :attribute must be greater than or equal to :value.",
	"lt":         "The :attribute must be less than :value.",
	"lte":        "The :attribute must be less than or equal to :value.",
	"unique":     "The :attribute has already been taken.",
	"exists":     "The selected :attribute is invalid.",
}

// message resolves the text for a failed rule. Lookup order:
// "field.rule" and "rule" overrides, store custom line, store rule line,
// extension message, built-in default.
func (v *Validator) message(field, rule string, replace map[string]string) string {
	locale := v.engine.localeFor(v.ctx)
	store := v.engine.messages

	tmpl, ok := v.messages[field+"."+rule]
	if !ok {
		tmpl, ok = v.messages[rule]
	}
	if !ok && store != nil {
		tmpl, ok = store.Get(locale, "validation.custom."+field+"."+rule)
		if !ok {
			tmpl, ok = store.Get(locale, "validation."+rule)
		}
	}
	if !ok {
		if ext, found := v.engine.extension(rule); found && ext.message != "" {
			tmpl, ok = ext.message, true
		}
	}
	if !ok {
		tmpl, ok = defaultMessages[rule]
	}
	if !ok {
		tmpl = fallbackMessage
	}

	attribute := field
	if store != nil {
		if name, found := store.Get(locale, "validation.attributes."+field); found {
			attribute = name
		}
	}

	pairs := map[string]string{"attribute": attribute}
	for k, val := range replace {
		pairs[k] = val
	}
	return replacePlaceholders(tmpl, pairs)
}

// replacePlaceholders swaps ":key" for its value, longest keys first so that
// ":values" is not eaten by ":value".
func replacePlaceholders(tmpl string, pairs map[string]string) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	args := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, ":"+k, pairs[k])
	}
	return strings.NewReplacer(args...).Replace(tmpl)
}
