package game

// Draw is one published draw event. Seed is empty until it has been revealed.
type Draw struct {
	Sequence int    `json:"sequence"`
	SeedHash string `json:"seed_hash"`
	Seed     string `json:"seed,omitempty"`
	Number   int    `json:"number"`
}

// Revealed reports whether the draw carries its seed.
func (d Draw) Revealed() bool {
	return d.Seed != ""
}

// Domain is the inclusive range numbers are drawn from.
type Domain struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Bingo75 is the classic 75-ball domain.
var Bingo75 = Domain{Min: 1, Max: 75}

// Size returns the number of values in the domain.
func (d Domain) Size() int {
	if d.Max < d.Min {
		return 0
	}
	return d.Max - d.Min + 1
}

type Status string

const (
	StatusVerified     Status = "verified"
	StatusUnverifiable Status = "unverifiable"
	StatusFailed       Status = "failed"
)

type Reason string

const (
	ReasonHashMismatch   Reason = "hash_mismatch"
	ReasonNumberMismatch Reason = "number_mismatch"
)

// DrawResult is the verdict for a single draw plus the values needed to
// explain a failure.
type DrawResult struct {
	Sequence       int    `json:"sequence"`
	Number         int    `json:"number"`
	Status         Status `json:"status"`
	Reason         Reason `json:"reason,omitempty"`
	ExpectedHash   string `json:"expectedHash,omitempty"`
	ComputedHash   string `json:"computedHash,omitempty"`
	ExpectedNumber int    `json:"expectedNumber,omitempty"`
	PoolSize       int    `json:"poolSize"`
}

type Verdict string

const (
	AllVerified Verdict = "all_verified"
	SomeFailed  Verdict = "some_failed"
)

// Report is the game-level verdict. RunID, Fingerprint and CreatedAt are
// stamped by the auditor, not by VerifyGame.
type Report struct {
	GameID          string       `json:"gameId"`
	RunID           string       `json:"runId,omitempty"`
	Domain          Domain       `json:"domain"`
	Verdict         Verdict      `json:"verdict"`
	Draws           []DrawResult `json:"draws"`
	FailedSequences []int        `json:"failedSequences"`
	Total           int          `json:"total"`
	Verified        int          `json:"verified"`
	Unverifiable    int          `json:"unverifiable"`
	Failed          int          `json:"failed"`
	Fingerprint     string       `json:"fingerprint,omitempty"`
	CreatedAt       int64        `json:"createdAt,omitempty"`
}

// Passed is true when no draw failed.
func (r *Report) Passed() bool {
	return r.Verdict == AllVerified
}
