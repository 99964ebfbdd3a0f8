package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const defaultEndpoint = "https://api.cognitive.microsofttranslator.com"

// Microsoft calls the Microsoft Translator v3 REST API.
type Microsoft struct {
	key      string
	region   string
	endpoint string
	client   *http.Client
}

func NewMicrosoft(key, region string) *Microsoft {
	return &Microsoft{
		key:      key,
		region:   region,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the client at another base URL.
func (m *Microsoft) WithEndpoint(endpoint string) *Microsoft {
	m.endpoint = endpoint
	return m
}

type textItem struct {
	Text string `json:"Text"`
}

type translationResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (m *Microsoft) Translate(ctx context.Context, text, from, to string) (string, error) {
	if m == nil || m.key == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal([]textItem{{Text: text}})
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("api-version", "3.0")
	if from != "" {
		q.Set("from", from)
	}
	q.Set("to", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint+"/translate?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", m.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", m.region)

	res, err := m.client.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrFailed, err.Error())
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", errors.Wrapf(ErrFailed, "status %d", res.StatusCode)
	}

	var out []translationResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", errors.Wrap(ErrFailed, err.Error())
	}
	if len(out) == 0 || len(out[0].Translations) == 0 {
		return "", errors.Wrap(ErrFailed, "empty response")
	}
	return out[0].Translations[0].Text, nil
}
