package handler

import (
	"net/http"

	"chronicles/backend/internal/i18n"
	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/translate"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// TranslateInput defines the structure of a translation request.
type TranslateInput struct {
	Text           string `json:"text" binding:"required" example:"Hola, mundo"`
	SourceLanguage string `json:"source_language" example:"es"`
	DestLanguage   string `json:"dest_language" example:"en"`
}

// TranslateResponse carries the translated text.
type TranslateResponse struct {
	Text string `json:"text" example:"Hello, world"`
}

// TranslateText godoc
// @Summary      Translate text
// @Description  Translates text into dest_language, or into the request locale when it is omitted.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TranslateInput true "Text to translate"
// @Success      200  {object}  TranslateResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse "Translation failed"
// @Failure      503  {object}  ErrorResponse "Translation not configured"
// @Router       /translate [post]
func TranslateText(c *gin.Context) {
	var input TranslateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.DestLanguage == "" {
		input.DestLanguage = i18n.Locale(c)
	}

	if svc.Translator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error: the translation service is not configured."})
		return
	}

	text, err := svc.Translator.Translate(c.Request.Context(), input.Text, input.SourceLanguage, input.DestLanguage)
	switch {
	case errors.Is(err, translate.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error: the translation service is not configured."})
	case err != nil:
		logger.Log.WithError(err).Warn("translation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error: the translation service failed."})
	default:
		c.JSON(http.StatusOK, gin.H{"text": text})
	}
}
