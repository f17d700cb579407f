package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"drawAuditor/crypto"
	"drawAuditor/game"
	"drawAuditor/logger"
	"drawAuditor/source"
)

// ReportSaver persists finished reports. db.ReportStore implements it.
type ReportSaver interface {
	StoreReport(ctx context.Context, report *game.Report) error
}

// Auditor fetches a game's draws and runs the verifier over them.
type Auditor struct {
	source source.DataSource
	store  ReportSaver
	domain game.Domain
	log    *zap.SugaredLogger
	now    func() time.Time
}

// New builds an Auditor for the 75-ball domain. store may be nil.
func New(src source.DataSource, store ReportSaver, log *zap.SugaredLogger) *Auditor {
	if log == nil {
		log = logger.Nop()
	}
	return &Auditor{
		source: src,
		store:  store,
		domain: game.Bingo75,
		log:    log,
		now:    time.Now,
	}
}

// WithDomain returns a copy of the auditor that verifies against domain.
func (a *Auditor) WithDomain(domain game.Domain) *Auditor {
	c := *a
	c.domain = domain
	return &c
}

// Audit verifies one game.
func (a *Auditor) Audit(ctx context.Context, gameID string) (*game.Report, error) {
	return a.Stream(ctx, gameID, nil)
}

// Stream verifies one game and calls onDraw for each draw result in
// sequence order before returning the sealed report.
func (a *Auditor) Stream(ctx context.Context, gameID string, onDraw func(game.DrawResult)) (*game.Report, error) {
	draws, err := a.source.FetchDraws(ctx, gameID)
	if err != nil {
		a.log.Errorf("❌ Failed to fetch draws for game %s: %v", gameID, err)
		return nil, err
	}

	report, err := game.VerifyGameFunc(gameID, a.domain, draws, onDraw)
	if err != nil {
		a.log.Errorf("❌ Verification aborted for game %s: %v", gameID, err)
		return nil, err
	}

	report.RunID = uuid.NewString()
	report.CreatedAt = a.now().Unix()
	if err := Seal(report); err != nil {
		return nil, err
	}

	if report.Passed() {
		a.log.Infof("✅ Game verified - GameID: %s, Draws: %d, Unverifiable: %d",
			gameID, report.Total, report.Unverifiable)
	} else {
		a.log.Warnf("❌ Game failed verification - GameID: %s, Failed: %v",
			gameID, report.FailedSequences)
	}

	if a.store != nil {
		if err := a.store.StoreReport(ctx, report); err != nil {
			a.log.Warnf("⚠️  Failed to store report for game %s: %v", gameID, err)
		}
	}

	return report, nil
}

// Outcome is the result of auditing one game in a batch. Exactly one of
// Report and Err is set.
type Outcome struct {
	GameID string
	Report *game.Report
	Err    error
}

// AuditMany verifies independent games concurrently, at most limit at a
// time. Outcomes are returned in the order of gameIDs; one game's failure
// does not stop the others.
func (a *Auditor) AuditMany(ctx context.Context, gameIDs []string, limit int) []Outcome {
	outcomes := make([]Outcome, len(gameIDs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range gameIDs {
		g.Go(func() error {
			report, err := a.Audit(ctx, id)
			outcomes[i] = Outcome{GameID: id, Report: report, Err: err}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

// Seal sets report.Fingerprint to the Keccak-256 of the report's JSON
// encoding with the fingerprint field empty.
func Seal(report *game.Report) error {
	fp, err := fingerprint(report)
	if err != nil {
		return err
	}
	report.Fingerprint = fp
	return nil
}

// CheckSeal reports whether the report still matches its fingerprint.
func CheckSeal(report *game.Report) bool {
	if report == nil || report.Fingerprint == "" {
		return false
	}
	fp, err := fingerprint(report)
	return err == nil && fp == report.Fingerprint
}

func fingerprint(report *game.Report) (string, error) {
	if report == nil {
		return "", errors.New("nil report")
	}
	unsealed := *report
	unsealed.Fingerprint = ""
	data, err := json.Marshal(&unsealed)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(data), nil
}
