// Package i18n selects the response locale and tags posts with their language.
package i18n

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const localeKey = "locale"

// Locales matches Accept-Language headers against the supported languages.
// The first supported language is the fallback.
type Locales struct {
	tags    []language.Tag
	matcher language.Matcher
}

func NewLocales(codes []string) *Locales {
	var tags []language.Tag
	for _, code := range codes {
		if tag, err := language.Parse(code); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	return &Locales{tags: tags, matcher: language.NewMatcher(tags)}
}

func base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}

// Best returns the base language code that best fits header.
func (l *Locales) Best(header string) string {
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return base(l.tags[0])
	}
	_, idx, conf := l.matcher.Match(desired...)
	if conf == language.No {
		return base(l.tags[0])
	}
	return base(l.tags[idx])
}

// Middleware stores the negotiated locale on the context.
func Middleware(l *Locales) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := l.Best(c.GetHeader("Accept-Language"))
		c.Set(localeKey, locale)
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// Locale returns the locale chosen by Middleware, or "en".
func Locale(c *gin.Context) string {
	if v := c.GetString(localeKey); v != "" {
		return v
	}
	return "en"
}
