package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"drawAuditor/config"
	"drawAuditor/game"
)

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// HTTPSource fetches draws from the upstream verification endpoint.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPSource{baseURL: base, client: client}, nil
}

func (s *HTTPSource) FetchDraws(ctx context.Context, gameID string) ([]game.Draw, error) {
	endpoint := s.baseURL + fmt.Sprintf(config.VerifyPathTemplate, url.PathEscape(gameID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDataSource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch game %s: %v", ErrDataSource, gameID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, config.MaxResponseBytes))
		return nil, &StatusError{GameID: gameID, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body for game %s: %v", ErrDataSource, gameID, err)
	}
	if len(body) > config.MaxResponseBytes {
		return nil, fmt.Errorf("%w: response for game %s exceeds %d bytes",
			game.ErrMalformedResponse, gameID, config.MaxResponseBytes)
	}

	return DecodeResponse(body)
}
