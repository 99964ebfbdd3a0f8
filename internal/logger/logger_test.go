package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
)

func TestNewFallsBackToInfo(t *testing.T) {
	c := qt.New(t)
	c.Assert(New("debug").GetLevel().String(), qt.Equals, "debug")
	c.Assert(New("loud").GetLevel().String(), qt.Equals, "info")
}

func TestRequestLogger(t *testing.T) {
	c := qt.New(t)
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := New("debug")
	log.Out = &buf

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusTeapot, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	c.Assert(id, qt.HasLen, 36)

	var line map[string]any
	c.Assert(json.Unmarshal(buf.Bytes(), &line), qt.IsNil)
	c.Assert(line["message"], qt.Equals, "request complete")
	c.Assert(line["severity"], qt.Equals, "debug")
	c.Assert(line["http.req.id"], qt.Equals, id)
	c.Assert(line["http.resp.status"], qt.Equals, float64(http.StatusTeapot))

	// An incoming id is kept.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	c.Assert(w.Header().Get(RequestIDHeader), qt.Equals, "abc")
}
