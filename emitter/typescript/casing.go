package typescript

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// toPascalCase converts snake_case or kebab-case to PascalCase
func toPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}

// toCamelCase converts snake_case, kebab-case or a Go identifier to camelCase.
// A leading acronym is lowered as a whole: "ID" -> "id", "URLPath" -> "urlPath".
func toCamelCase(s string) string {
	pascal := toPascalCase(s)
	if pascal == "" {
		return pascal
	}
	runes := []rune(pascal)

	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	// Keep the last capital of an acronym that starts the next word, except
	// for a plural: "URLPath" keeps P, "IDs" does not.
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) && string(runes[n:]) != "s" {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// toConstantCase converts any value to an identifier-safe UPPER_SNAKE key.
// "in-progress" -> "IN_PROGRESS", "PaidInFull" -> "PAID_IN_FULL", "2fa" -> "V_2FA"
func toConstantCase(s string) string {
	var result strings.Builder
	runes := []rune(s)
	lastUnderscore := true

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Split camel humps, keeping acronyms together
			if i > 0 && unicode.IsUpper(r) && !lastUnderscore {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToUpper(r))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				result.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.TrimSuffix(result.String(), "_")
	if out == "" {
		return "EMPTY"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "V_" + out
	}
	return out
}

var titleCaser = cases.Title(language.English)

// toLabel derives a display label from a raw choice value.
// "paid_in_full" -> "Paid In Full"
func toLabel(value string) string {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(value)
	return titleCaser.String(strings.TrimSpace(spaced))
}
