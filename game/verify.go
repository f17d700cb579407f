package game

import (
	"errors"
	"fmt"
	"strings"

	"drawAuditor/crypto"
)

// VerifyDraw checks one draw against the pool in effect immediately before it.
//
// Per-draw failures (hash or number mismatch) are reported in the result.
// The returned error is reserved for conditions that make the whole game
// unverifiable: an undecodable seed or an exhausted pool.
func VerifyDraw(draw Draw, pool []int) (DrawResult, error) {
	result := DrawResult{
		Sequence: draw.Sequence,
		Number:   draw.Number,
		PoolSize: len(pool),
	}

	if !draw.Revealed() {
		result.Status = StatusUnverifiable
		return result, nil
	}

	seed, err := crypto.DecodeSeed(draw.Seed)
	if err != nil {
		return result, fmt.Errorf("%w: draw %d: %v", ErrMalformedResponse, draw.Sequence, err)
	}

	if err := crypto.VerifySeed(draw.Seed, draw.SeedHash); err != nil {
		var mismatch *crypto.HashMismatchError
		if !errors.As(err, &mismatch) {
			return result, fmt.Errorf("%w: draw %d: %v", ErrMalformedResponse, draw.Sequence, err)
		}
		result.Status = StatusFailed
		result.Reason = ReasonHashMismatch
		result.ExpectedHash = mismatch.Expected
		result.ComputedHash = mismatch.Computed
		return result, nil
	}

	expected, err := DeriveNumber(seed, pool)
	if errors.Is(err, ErrPoolExhausted) {
		return result, fmt.Errorf("draw %d: %w", draw.Sequence, err)
	}
	if err != nil {
		return result, fmt.Errorf("%w: draw %d: %v", ErrMalformedResponse, draw.Sequence, err)
	}

	result.ExpectedNumber = expected
	if expected != draw.Number {
		result.Status = StatusFailed
		result.Reason = ReasonNumberMismatch
		return result, nil
	}

	result.Status = StatusVerified
	return result, nil
}

// VerifyGame folds VerifyDraw over the game's draws in sequence order.
// Every claimed number joins the history whatever its verdict, so each
// derivation is checked against the sequence the server actually published.
func VerifyGame(gameID string, domain Domain, draws []Draw) (*Report, error) {
	return VerifyGameFunc(gameID, domain, draws, nil)
}

// VerifyGameFunc is VerifyGame with a callback invoked for each draw result
// in sequence order. Callbacks run only once the whole game has verified
// without a fatal error, so an aborted game never yields per-draw results.
// A nil callback is allowed.
func VerifyGameFunc(gameID string, domain Domain, draws []Draw, onDraw func(DrawResult)) (*Report, error) {
	if err := ValidateDraws(draws); err != nil {
		return nil, err
	}
	if err := checkPool(domain, draws); err != nil {
		return nil, err
	}

	report := &Report{
		GameID:          gameID,
		Domain:          domain,
		Draws:           make([]DrawResult, 0, len(draws)),
		FailedSequences: []int{},
		Total:           len(draws),
	}

	history := make(map[int]struct{}, len(draws))
	for _, draw := range draws {
		result, err := VerifyDraw(draw, BuildPool(domain, history))
		if err != nil {
			return nil, err
		}

		switch result.Status {
		case StatusVerified:
			report.Verified++
		case StatusUnverifiable:
			report.Unverifiable++
		case StatusFailed:
			report.Failed++
			report.FailedSequences = append(report.FailedSequences, draw.Sequence)
		}
		report.Draws = append(report.Draws, result)

		history[draw.Number] = struct{}{}
	}

	if onDraw != nil {
		for _, result := range report.Draws {
			onDraw(result)
		}
	}

	report.Verdict = AllVerified
	if report.Failed > 0 {
		report.Verdict = SomeFailed
	}
	return report, nil
}

// ValidateDraws enforces the structural invariants: sequences run 1..n in
// order with no gaps, every draw carries a commitment, and every revealed
// seed decodes to at least four bytes.
func ValidateDraws(draws []Draw) error {
	for i, draw := range draws {
		if draw.Sequence != i+1 {
			return fmt.Errorf("%w: draw at position %d has sequence %d, want %d",
				ErrMalformedResponse, i, draw.Sequence, i+1)
		}
		if strings.TrimSpace(draw.SeedHash) == "" {
			return fmt.Errorf("%w: draw %d has no seed_hash", ErrMalformedResponse, draw.Sequence)
		}
		if !draw.Revealed() {
			continue
		}
		seed, err := crypto.DecodeSeed(draw.Seed)
		if err != nil {
			return fmt.Errorf("%w: draw %d: %v", ErrMalformedResponse, draw.Sequence, err)
		}
		if _, err := SeedValue(seed); err != nil {
			return fmt.Errorf("%w: draw %d: %v", ErrMalformedResponse, draw.Sequence, err)
		}
	}
	return nil
}

// checkPool fails if some draw that needs a derivation (revealed, commitment
// matching) would face an empty pool, i.e. the claimed numbers before it
// already cover the whole domain. Draws must already pass ValidateDraws.
func checkPool(domain Domain, draws []Draw) error {
	seen := make(map[int]struct{}, len(draws))
	for _, draw := range draws {
		if draw.Revealed() && len(seen) >= domain.Size() &&
			crypto.VerifySeed(draw.Seed, draw.SeedHash) == nil {
			return fmt.Errorf("draw %d: %w", draw.Sequence, ErrPoolExhausted)
		}
		if draw.Number >= domain.Min && draw.Number <= domain.Max {
			seen[draw.Number] = struct{}{}
		}
	}
	return nil
}
