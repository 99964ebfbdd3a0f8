package i18n

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage returns the ISO 639-1 code of the most likely language of text, or ""
// when no language could be guessed at all. Low confidence guesses are kept; posts are
// too short for whatlanggo to call them reliable.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if info.Lang < 0 {
		return ""
	}
	code := info.Lang.Iso6391()
	if len(code) > 5 {
		return ""
	}
	return code
}
