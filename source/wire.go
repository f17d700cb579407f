package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"drawAuditor/game"
)

// verifyResponse mirrors GET /games/{game_id}/verify. A missing or null
// draws field is an empty game.
type verifyResponse struct {
	Draws []wireDraw `json:"draws" validate:"dive"`
}

type wireDraw struct {
	Sequence *int    `json:"sequence" validate:"required,min=1"`
	SeedHash *string `json:"seed_hash" validate:"required,hexadecimal"`
	Seed     string  `json:"seed" validate:"omitempty,hexadecimal"`
	Number   *int    `json:"number" validate:"required"`
}

var validate = validator.New()

// DecodeResponse parses and validates a verification response body.
// Any structural problem is reported as game.ErrMalformedResponse.
func DecodeResponse(body []byte) ([]game.Draw, error) {
	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrMalformedResponse, err)
	}

	if err := validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("%w: %s", game.ErrMalformedResponse, describe(err))
	}

	draws := make([]game.Draw, 0, len(resp.Draws))
	for _, w := range resp.Draws {
		d := game.Draw{
			Sequence: *w.Sequence,
			SeedHash: *w.SeedHash,
			Number:   *w.Number,
			Seed:     w.Seed,
		}
		draws = append(draws, d)
	}

	if err := game.ValidateDraws(draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// EncodeResponse is the inverse of DecodeResponse, used for caching.
func EncodeResponse(draws []game.Draw) ([]byte, error) {
	return json.Marshal(struct {
		Draws []game.Draw `json:"draws"`
	}{Draws: draws})
}

func describe(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Namespace()))
		case "hexadecimal":
			msgs = append(msgs, fmt.Sprintf("%s must be hexadecimal", e.Namespace()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Namespace()))
		}
	}
	return strings.Join(msgs, ", ")
}
