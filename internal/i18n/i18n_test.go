package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chronicles/backend/internal/i18n"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
)

func TestBest(t *testing.T) {
	l := i18n.NewLocales([]string{"en", "es"})
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"es", "es"},
		{"es-MX,es;q=0.9,en;q=0.5", "es"},
		{"fr-FR,en-GB;q=0.8", "en"},
		{"de", "en"},
		{"!!garbage", "en"},
	}
	for _, test := range tests {
		t.Run(test.header, func(t *testing.T) {
			qt.Assert(t, l.Best(test.header), qt.Equals, test.want)
		})
	}
}

func TestMiddleware(t *testing.T) {
	c := qt.New(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(i18n.Middleware(i18n.NewLocales([]string{"en", "es"})))
	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, i18n.Locale(ctx))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es-ES")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	c.Assert(w.Body.String(), qt.Equals, "es")
	c.Assert(w.Header().Get("Content-Language"), qt.Equals, "es")
}

func TestDetectLanguage(t *testing.T) {
	c := qt.New(t)
	c.Assert(i18n.DetectLanguage("   "), qt.Equals, "")
	c.Assert(i18n.DetectLanguage("The quick brown fox jumps over the lazy dog and keeps running through the forest."), qt.Equals, "en")
	c.Assert(i18n.DetectLanguage("1234 5678"), qt.Equals, "")
	c.Assert(i18n.DetectLanguage("El rápido zorro marrón salta sobre el perro perezoso y sigue corriendo por el bosque."), qt.Equals, "es")
}
