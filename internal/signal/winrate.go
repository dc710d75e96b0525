// Package signal provides win-rate sources for threat estimation. The HTTP
// source talks to an aggregate stats endpoint; the static source serves a
// fixed table for tests and offline runs. Callers treat any error as
// "signal unavailable"; nothing in this package is ever fatal to a run.
package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// HTTPSource fetches champion win rates from a stats endpoint. Responses
// are cached per champion for the life of the source; win rates do not move
// within a patch.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]float64
}

// NewHTTPSource builds a source against baseURL. timeout bounds each fetch.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		cache:   make(map[string]float64),
	}
}

type winRateResponse struct {
	Champion string  `json:"champion"`
	WinRate  float64 `json:"win_rate"`
}

// WinRate returns the champion's win rate in percent. Errors mean the
// signal is unavailable; the caller degrades to static scoring.
func (s *HTTPSource) WinRate(ctx context.Context, champion string) (float64, error) {
	s.mu.Lock()
	if wr, ok := s.cache[champion]; ok {
		s.mu.Unlock()
		return wr, nil
	}
	s.mu.Unlock()

	url := fmt.Sprintf("%s/aram/winrates/%s", s.baseURL, Slugify(champion))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("win-rate endpoint returned %d for %s", resp.StatusCode, champion)
	}

	var body winRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding win rate for %s: %w", champion, err)
	}

	s.mu.Lock()
	s.cache[champion] = body.WinRate
	s.mu.Unlock()

	s.logger.Debug("fetched win rate",
		zap.String("champion", champion), zap.Float64("win_rate", body.WinRate))
	return body.WinRate, nil
}

// StaticSource serves win rates from a fixed table.
type StaticSource struct {
	Rates map[string]float64
}

// WinRate returns the tabled rate or an error when the champion is absent.
func (s *StaticSource) WinRate(_ context.Context, champion string) (float64, error) {
	wr, ok := s.Rates[champion]
	if !ok {
		return 0, fmt.Errorf("no win rate for %s", champion)
	}
	return wr, nil
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9 ]`)

// Slugify converts a champion name into the URL form used by stats sites:
// lowercase ASCII, apostrophes and dots dropped, spaces to hyphens.
func Slugify(name string) string {
	lower := strings.ToLower(name)
	lower = strings.NewReplacer("'", "", ".", "").Replace(lower)

	// Strip diacritics the cheap way: keep ASCII letters, digits, spaces.
	var b strings.Builder
	for _, r := range lower {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	cleaned := slugCleaner.ReplaceAllString(b.String(), "")
	return strings.ReplaceAll(strings.TrimSpace(cleaned), " ", "-")
}
