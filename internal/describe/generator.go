package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Fallback texts returned to the admin instead of an error; the form stays
// editable either way.
const (
	FallbackNotConfigured = "Elegant and high-quality product for your home. (API key not configured)"
	FallbackFailed        = "Failed to generate description. Please write one manually."
)

// Generator drafts a product description from its name and category. It
// never fails the caller: when generation is impossible it returns a
// fallback text instead.
type Generator interface {
	Describe(ctx context.Context, name, category string) string
}

// HTTPGenerator calls a remote text-generation endpoint.
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *log.Entry
}

func NewHTTPGenerator(endpoint, apiKey string, logger *log.Entry) *HTTPGenerator {
	if logger == nil {
		logger = log.WithField("component", "describe")
	}
	return &HTTPGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// Describe asks the endpoint for a short marketing paragraph. A missing
// key yields the not-configured fallback, any transport or decoding error
// the failure fallback.
func (g *HTTPGenerator) Describe(ctx context.Context, name, category string) string {
	if g.apiKey == "" || g.endpoint == "" {
		return FallbackNotConfigured
	}

	prompt := fmt.Sprintf(
		"Write a short, appealing e-commerce product description (2-3 sentences) for a product named %q in the category %q.",
		name, category,
	)
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		g.logger.WithError(err).Error("marshal describe request failed")
		return FallbackFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		g.logger.WithError(err).Error("build describe request failed")
		return FallbackFailed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WithError(err).Warn("describe request failed")
		return FallbackFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.WithField("status", resp.StatusCode).Warn("describe endpoint returned non-200")
		return FallbackFailed
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		g.logger.WithError(err).Warn("decode describe response failed")
		return FallbackFailed
	}
	if strings.TrimSpace(out.Text) == "" {
		return FallbackFailed
	}
	return strings.TrimSpace(out.Text)
}

// StaticGenerator returns a fixed text; used when no endpoint is
// configured and in tests.
type StaticGenerator struct {
	Text string
}

func (g *StaticGenerator) Describe(ctx context.Context, name, category string) string {
	if g.Text == "" {
		return FallbackNotConfigured
	}
	return g.Text
}

var (
	_ Generator = (*HTTPGenerator)(nil)
	_ Generator = (*StaticGenerator)(nil)
)
