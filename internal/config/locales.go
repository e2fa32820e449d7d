package config

const (
	LangEN = "en"
	LangES = "es"
)

var supportedLanguages = []string{LangEN, LangES}

// NormalizeLanguage maps regional tags such as "es-AR" to a supported
// language, falling back to English.
func NormalizeLanguage(lang string) string {
	if len(lang) >= 2 {
		switch lang[:2] {
		case LangES:
			return LangES
		case LangEN:
			return LangEN
		}
	}
	return LangEN
}
