package translate

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is used when a request names no target language.
const DefaultLanguage = "slovenian"

// languageCodes maps the language names accepted by the upload form to their
// ISO 639-1 codes.
var languageCodes = map[string]string{
	"slovenian": "sl",
	"croatian":  "hr",
	"serbian":   "sr",
	"english":   "en",
	"german":    "de",
	"italian":   "it",
	"french":    "fr",
	"spanish":   "es",
}

// Language describes one named target language.
type Language struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Display string `json:"display"`
	Native  string `json:"native"`
}

// ResolveLanguage turns a language name or tag into the code sent to
// backends. Known names map through the fixed table, valid BCP 47 tags are
// canonicalized, and anything else is returned lowercased as given.
func ResolveLanguage(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if code, ok := languageCodes[key]; ok {
		return code
	}

	tag, err := language.Parse(key)
	if err != nil {
		return key
	}
	return tag.String()
}

// IsSupported reports whether name is one of the named languages.
func IsSupported(name string) bool {
	_, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// SupportedLanguages returns the named languages sorted by name, with their
// English and native display names.
func SupportedLanguages() []Language {
	names := make([]string, 0, len(languageCodes))
	for name := range languageCodes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Language, 0, len(names))
	for _, name := range names {
		code := languageCodes[name]
		tag := language.Make(code)
		out = append(out, Language{
			Name:    name,
			Code:    code,
			Display: display.English.Tags().Name(tag),
			Native:  display.Self.Name(tag),
		})
	}
	return out
}
