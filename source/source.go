package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"drawAuditor/game"
)

// ErrDataSource marks a failure to obtain draw data at all (transport,
// upstream status, unknown game).
var ErrDataSource = errors.New("data source error")

// DataSource supplies the ordered draws of a game.
type DataSource interface {
	FetchDraws(ctx context.Context, gameID string) ([]game.Draw, error)
}

// StatusError is an unexpected HTTP status from the upstream service.
type StatusError struct {
	GameID     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch game %s: unexpected status %d", e.GameID, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrDataSource
}

// Static serves pre-fetched draws, so the verifier can run with no network.
type Static map[string][]game.Draw

func (s Static) FetchDraws(_ context.Context, gameID string) ([]game.Draw, error) {
	draws, ok := s[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: game %s not found", ErrDataSource, gameID)
	}
	out := make([]game.Draw, len(draws))
	copy(out, draws)
	return out, nil
}

// LoadFile reads a saved verification response (the same JSON the upstream
// /games/{id}/verify endpoint returns) into a Static source under gameID.
func LoadFile(path, gameID string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	draws, err := DecodeResponse(data)
	if err != nil {
		return nil, err
	}
	return Static{gameID: draws}, nil
}
