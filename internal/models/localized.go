package models

// LocalizedText maps a language code to a translated string. The backend
// stores every descriptive field this way ("en" is always present for
// published content, "mr"/"hi" are optional).
type LocalizedText map[string]string

// DefaultLanguage is the mandatory fallback language for localized fields.
const DefaultLanguage = "en"

// Resolve returns the text for lang, falling back to the default language and
// finally to any non-empty translation. All language fallback goes through
// here; callers never build their own fallback chains.
func (t LocalizedText) Resolve(lang string) string {
	if len(t) == 0 {
		return ""
	}
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	if s, ok := t[DefaultLanguage]; ok && s != "" {
		return s
	}
	// Deterministic last resort: first non-empty value in language-code order.
	best := ""
	for code, s := range t {
		if s == "" {
			continue
		}
		if best == "" || code < best {
			best = code
		}
	}
	if best != "" {
		return t[best]
	}
	return ""
}

// IsEmpty reports whether no translation carries text.
func (t LocalizedText) IsEmpty() bool {
	for _, s := range t {
		if s != "" {
			return false
		}
	}
	return true
}
