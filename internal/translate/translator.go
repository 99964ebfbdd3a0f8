// Package translate turns post bodies into the reader's language.
package translate

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNotConfigured = errors.New("the translation service is not configured")
	ErrFailed        = errors.New("the translation service failed")
)

// Translator translates text between two language tags.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}
