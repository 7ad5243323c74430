package registry

import (
	"fmt"
	"regexp"
	"time"
)

// ValidatorID names one predicate from the closed validator set. Fields
// reference validators by ID so the registry stays serializable data rather
// than embedded closures.
type ValidatorID string

const (
	ValidatorNonEmptyString ValidatorID = "non_empty_string"
	ValidatorBoolean        ValidatorID = "boolean"
	ValidatorE164Phone      ValidatorID = "e164_phone"
	ValidatorPositiveInt    ValidatorID = "positive_int"
	ValidatorSpeakingRate   ValidatorID = "speaking_rate"
	ValidatorFallbackMode   ValidatorID = "fallback_mode"
	ValidatorTimezoneName   ValidatorID = "timezone_name"
	ValidatorWeeklyHours    ValidatorID = "weekly_hours"
	ValidatorPlaceholders   ValidatorID = "placeholder_tokens"
	ValidatorLocaleTag      ValidatorID = "locale_tag"
)

// Validator is one pure predicate plus the remediation text reported when it
// fails. Check returns true when the value is acceptable.
type Validator struct {
	ID       ValidatorID
	Message  string
	Expected string
	Fix      string
	Check    func(value any) bool
}

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// placeholderPattern matches templated tokens like {{business_name}}.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// AllowedPlaceholders is the explicit allow-list of templated tokens usable
// in tenant text. Shared with the tenant-safety auditor.
var AllowedPlaceholders = map[string]bool{
	"business_name": true,
	"caller_name":   true,
	"phone":         true,
	"hours":         true,
	"date":          true,
	"time":          true,
}

// PlaceholderTokens extracts the token names used in a text value.
func PlaceholderTokens(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}

var validators = map[ValidatorID]Validator{
	ValidatorNonEmptyString: {
		ID:       ValidatorNonEmptyString,
		Message:  "value must be a non-empty string",
		Expected: "non-empty string",
		Fix:      "set a value in the admin console",
		Check: func(v any) bool {
			s, ok := v.(string)
			return ok && s != ""
		},
	},
	ValidatorBoolean: {
		ID:       ValidatorBoolean,
		Message:  "value must be a boolean",
		Expected: "true or false",
		Fix:      "toggle the switch in the admin console to persist a boolean",
		Check: func(v any) bool {
			_, ok := v.(bool)
			return ok
		},
	},
	ValidatorE164Phone: {
		ID:       ValidatorE164Phone,
		Message:  "value must be an E.164 phone number",
		Expected: "+<country><number>, e.g. +15551234567",
		Fix:      "re-enter the number including country code",
		Check: func(v any) bool {
			s, ok := v.(string)
			return ok && e164Pattern.MatchString(s)
		},
	},
	ValidatorPositiveInt: {
		ID:       ValidatorPositiveInt,
		Message:  "value must be a positive integer",
		Expected: "integer > 0",
		Fix:      "set a whole number greater than zero",
		Check: func(v any) bool {
			switch n := v.(type) {
			case int:
				return n > 0
			case int64:
				return n > 0
			case float64:
				return n > 0 && n == float64(int64(n))
			}
			return false
		},
	},
	ValidatorSpeakingRate: {
		ID:       ValidatorSpeakingRate,
		Message:  "speaking rate must be between 0.5 and 2.0",
		Expected: "number in [0.5, 2.0]",
		Fix:      "adjust the rate slider into the supported range",
		Check: func(v any) bool {
			f, ok := toFloat(v)
			return ok && f >= 0.5 && f <= 2.0
		},
	},
	ValidatorFallbackMode: {
		ID:       ValidatorFallbackMode,
		Message:  "fallback mode must be one of llm, transfer, message",
		Expected: "llm | transfer | message",
		Fix:      "pick a supported fallback mode",
		Check: func(v any) bool {
			s, ok := v.(string)
			return ok && (s == "llm" || s == "transfer" || s == "message")
		},
	},
	ValidatorTimezoneName: {
		ID:       ValidatorTimezoneName,
		Message:  "value must be an IANA timezone name",
		Expected: "e.g. America/New_York",
		Fix:      "select a timezone from the picker",
		Check: func(v any) bool {
			s, ok := v.(string)
			if !ok || s == "" {
				return false
			}
			_, err := time.LoadLocation(s)
			return err == nil
		},
	},
	ValidatorWeeklyHours: {
		ID:       ValidatorWeeklyHours,
		Message:  "weekly hours must map weekday names to open/close ranges",
		Expected: `{"mon": ["09:00-17:00"], ...}`,
		Fix:      "re-save business hours from the hours editor",
		Check:    checkWeeklyHours,
	},
	ValidatorPlaceholders: {
		ID:       ValidatorPlaceholders,
		Message:  "text uses a placeholder token outside the allow-list",
		Expected: "only {{business_name}}, {{caller_name}}, {{phone}}, {{hours}}, {{date}}, {{time}}",
		Fix:      "remove or replace the unsupported token",
		Check: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			for _, tok := range PlaceholderTokens(s) {
				if !AllowedPlaceholders[tok] {
					return false
				}
			}
			return true
		},
	},
	ValidatorLocaleTag: {
		ID:       ValidatorLocaleTag,
		Message:  "value must be a BCP 47 locale tag",
		Expected: "e.g. en-US",
		Fix:      "select a locale from the picker",
		Check: func(v any) bool {
			s, ok := v.(string)
			return ok && localePattern.MatchString(s)
		},
	},
}

var localePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)

var weekdays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

var hoursRangePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d-([01]\d|2[0-3]):[0-5]\d$`)

func checkWeeklyHours(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for day, ranges := range m {
		if !weekdays[day] {
			return false
		}
		list, ok := ranges.([]any)
		if !ok {
			return false
		}
		for _, r := range list {
			s, ok := r.(string)
			if !ok || !hoursRangePattern.MatchString(s) {
				return false
			}
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Lookup returns the validator for an ID. The boolean is false for IDs
// outside the closed set.
func Lookup(id ValidatorID) (Validator, bool) {
	v, ok := validators[id]
	return v, ok
}

// Describe renders a validator failure for a concrete value, used by the
// health engine to build machine-readable misconfiguration reasons.
func Describe(id ValidatorID, value any) (reason, expected, actual, fix string) {
	v, ok := validators[id]
	if !ok {
		return fmt.Sprintf("unknown validator %q", id), "", fmt.Sprintf("%v", value), ""
	}
	return v.Message, v.Expected, fmt.Sprintf("%v", value), v.Fix
}
