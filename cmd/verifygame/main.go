// Command verifygame audits the published draws of one or more games.
//
// Exit status is 0 when every game verifies, 1 when any draw failed, and 2
// when a game could not be verified at all (fetch failure, malformed data)
// or the command line is invalid.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"drawAuditor/audit"
	"drawAuditor/config"
	"drawAuditor/logger"
	"drawAuditor/report"
	"drawAuditor/source"
)

const (
	exitVerified = 0
	exitFailed   = 1
	exitAborted  = 2
)

type cliOptions struct {
	apiURL      string
	file        string
	asJSON      bool
	timeout     time.Duration
	concurrency int
	verbose     bool
	gameIDs     []string
}

func parseOptions(args []string, cfg config.Config, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("verifygame", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.apiURL, "api", cfg.APIURL, "base URL of the game service")
	fs.StringVar(&opts.file, "file", "", "verify a saved /verify response instead of fetching (single game only)")
	fs.BoolVar(&opts.asJSON, "json", false, "print machine-readable JSON")
	fs.DurationVar(&opts.timeout, "timeout", cfg.HTTPTimeout, "HTTP timeout per request")
	fs.IntVar(&opts.concurrency, "concurrency", cfg.Concurrency, "games verified in parallel")
	fs.BoolVar(&opts.verbose, "v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: verifygame [flags] <gameId> [gameId...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.gameIDs = fs.Args()
	if len(opts.gameIDs) == 0 {
		fs.Usage()
		return opts, errors.New("a game id is required")
	}
	if opts.file != "" && len(opts.gameIDs) != 1 {
		return opts, errors.New("-file takes exactly one game id")
	}
	if opts.concurrency < 1 {
		return opts, errors.New("-concurrency must be at least 1")
	}
	return opts, nil
}

func newSource(opts cliOptions) (source.DataSource, error) {
	if opts.file != "" {
		return source.LoadFile(opts.file, opts.gameIDs[0])
	}
	return source.NewHTTPSource(source.HTTPConfig{BaseURL: opts.apiURL, Timeout: opts.timeout})
}

func run(ctx context.Context, args []string, cfg config.Config, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, cfg, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return exitAborted
	}

	log := logger.Nop()
	if opts.verbose {
		if l, err := logger.New(cfg.Env); err == nil {
			log = l
			defer log.Sync()
		}
	}

	src, err := newSource(opts)
	if err != nil {
		log.Errorf("❌ Failed to open data source: %v", err)
		outcomes := make([]audit.Outcome, len(opts.gameIDs))
		for i, id := range opts.gameIDs {
			outcomes[i] = audit.Outcome{GameID: id, Err: err}
		}
		return render(outcomes, opts.asJSON, stdout, log)
	}

	outcomes := audit.New(src, nil, log).AuditMany(ctx, opts.gameIDs, opts.concurrency)
	return render(outcomes, opts.asJSON, stdout, log)
}

func render(outcomes []audit.Outcome, asJSON bool, w io.Writer, log *zap.SugaredLogger) int {
	code := exitVerified
	for i, o := range outcomes {
		if i > 0 && !asJSON {
			fmt.Fprintln(w)
		}

		var err error
		if o.Err != nil {
			code = exitAborted
			if err = report.WriteAbort(w, o.GameID, o.Err, asJSON); err != nil {
				log.Errorf("❌ Failed to write abort for game %s: %v", o.GameID, err)
			}
			continue
		}

		if asJSON {
			err = report.WriteJSON(w, o.Report)
		} else {
			err = report.WriteText(w, o.Report)
		}
		if err != nil {
			log.Errorf("❌ Failed to write report for game %s: %v", o.GameID, err)
		}

		if !o.Report.Passed() && code == exitVerified {
			code = exitFailed
		}
	}
	return code
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitAborted)
	}

	os.Exit(run(context.Background(), os.Args[1:], cfg, os.Stdout, os.Stderr))
}
