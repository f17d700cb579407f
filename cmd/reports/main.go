// Command reports prints the most recent stored verification reports and
// checks each one against its fingerprint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"drawAuditor/audit"
	"drawAuditor/config"
	"drawAuditor/db"
	"drawAuditor/logger"
)

func main() {
	limit := flag.Int("limit", config.DefaultReportLimit, "number of reports to list")
	gameID := flag.String("game", "", "show only the latest report for this game")
	flag.Parse()

	if !config.LoadDotEnv() {
		log.Println("Warning: .env not found")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()

	store, err := db.NewReportStore(ctx, cfg.DatabaseURL, logger.Nop())
	if err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer store.Close()

	var records []*db.ReportRecord
	if *gameID != "" {
		record, err := store.GetLatestReport(ctx, *gameID)
		if err != nil {
			log.Fatalf("Failed to get report: %v", err)
		}
		if record != nil {
			records = append(records, record)
		}
	} else {
		records, err = store.GetRecentReports(ctx, *limit)
		if err != nil {
			log.Fatalf("Failed to get reports: %v", err)
		}
	}

	fmt.Printf("Reports (%d entries):\n", len(records))
	for _, r := range records {
		seal := "sealed"
		if !audit.CheckSeal(r.Report) {
			seal = "SEAL BROKEN"
		}
		fmt.Printf("  %s  %-16s %-13s %d/%d verified, %d unverifiable, failed %v  [%s]\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.GameID, r.Verdict,
			r.Verified, r.Total, r.Unverifiable, r.FailedSequences, seal)
	}
}
