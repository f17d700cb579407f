package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"drawAuditor/game"
)

const rule = "----------------------------------------"

// WriteText renders every draw's status followed by the aggregate verdict.
func WriteText(w io.Writer, r *game.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Verifying game: %s\n", r.GameID)
	b.WriteString(rule + "\n")

	if r.Total == 0 {
		b.WriteString("No draws found.\n")
	} else {
		fmt.Fprintf(&b, "Found %d draw(s)\n\n", r.Total)
	}

	for _, d := range r.Draws {
		writeDraw(&b, d)
	}

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "Verified: %d  Unverifiable: %d  Failed: %d\n", r.Verified, r.Unverifiable, r.Failed)
	if r.Passed() {
		b.WriteString("✅ ALL DRAWS VERIFIED\n")
		if r.Unverifiable > 0 {
			fmt.Fprintf(&b, "   (%d of %d draws had no revealed seed and could not be checked)\n",
				r.Unverifiable, r.Total)
		}
	} else {
		fmt.Fprintf(&b, "❌ VERIFICATION FAILED (draws %s)\n", joinInts(r.FailedSequences))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDraw(b *strings.Builder, d game.DrawResult) {
	switch d.Status {
	case game.StatusUnverifiable:
		fmt.Fprintf(b, "  Draw #%d: No seed revealed (number=%d, not disprovable)\n", d.Sequence, d.Number)
	case game.StatusVerified:
		fmt.Fprintf(b, "  Draw #%d: Hash verified ✓\n", d.Sequence)
		fmt.Fprintf(b, "    Number derivation verified ✓ (number=%d)\n", d.Number)
	case game.StatusFailed:
		switch d.Reason {
		case game.ReasonHashMismatch:
			fmt.Fprintf(b, "  Draw #%d: HASH MISMATCH!\n", d.Sequence)
			fmt.Fprintf(b, "    Expected: %s\n", d.ExpectedHash)
			fmt.Fprintf(b, "    Computed: %s\n", d.ComputedHash)
		case game.ReasonNumberMismatch:
			fmt.Fprintf(b, "  Draw #%d: Hash verified ✓\n", d.Sequence)
			fmt.Fprintf(b, "    NUMBER MISMATCH! Expected %d, got %d\n", d.ExpectedNumber, d.Number)
		default:
			fmt.Fprintf(b, "  Draw #%d: FAILED (%s)\n", d.Sequence, d.Reason)
		}
	}
}

// WriteJSON writes the machine-readable report.
func WriteJSON(w io.Writer, r *game.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Abort is the machine-readable form of an aborted verification.
type Abort struct {
	GameID string `json:"gameId"`
	Error  string `json:"error"`
}

// WriteAbort reports why a game could not be verified. No aggregate verdict
// is produced.
func WriteAbort(w io.Writer, gameID string, cause error, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(Abort{GameID: gameID, Error: cause.Error()})
	}
	_, err := fmt.Fprintf(w, "Verifying game: %s\n%s\n⚠️  VERIFICATION ABORTED: %v\n", gameID, rule, cause)
	return err
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
