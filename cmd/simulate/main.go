package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"sigsim-api/internal/cli"
	"sigsim-api/internal/config"
	"sigsim-api/internal/svc"
	"sigsim-api/pkg/backtest"
	"sigsim-api/pkg/journal"
	"sigsim-api/pkg/scraper"
	sigpkg "sigsim-api/pkg/signal"
)

const pipelineTimeout = 15 * time.Minute

var (
	configFile = flag.String("f", "etc/sigsim.yaml", "the config file")
	handlesArg = flag.String("handles", "", "comma separated handles to scrape (defaults to scraper config)")
	limitArg   = flag.Int("limit", 0, "tweets per handle (defaults to scraper config)")
	reportArg  = flag.String("report", "", "optional path for the JSON summary report")
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	flag.Parse()

	appCfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load app config: %v", err)
	}

	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	svcCtx := svc.NewServiceContext(*appCfg)
	if svcCtx.Extractor == nil {
		log.Fatalf("[main] Extractor section is required (llm + extractor configs)")
	}
	if svcCtx.Engine == nil {
		log.Fatalf("[main] Prices section is required for simulation")
	}
	if svcCtx.Tweets == nil {
		log.Fatalf("[main] Scraper section is required")
	}

	handles := resolveHandles(svcCtx)
	if len(handles) == 0 {
		log.Fatalf("[main] No handles configured; pass -handles or set scraper config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, pipelineTimeout)
	defer cancel()

	runID := uuid.NewString()
	record := &journal.RunRecord{
		RunID:        runID,
		Handles:      handles,
		PromptDigest: svcCtx.PromptDigest,
	}
	if svcCtx.PricesConfig != nil {
		record.Provider = svcCtx.PricesConfig.Provider
	}

	summary, err := runPipeline(ctx, svcCtx, handles, record)
	if err != nil {
		record.Success = false
		record.ErrorMessage = err.Error()
		if path, werr := svcCtx.Journal.WriteRun(record); werr == nil {
			log.Printf("[main] Journal written to %s", path)
		}
		log.Fatalf("[main] Pipeline failed: %v", err)
	}

	printSummary(summary)

	if data, err := json.Marshal(summary); err == nil {
		record.SummaryJSON = string(data)
	}
	record.Success = true
	if path, err := svcCtx.Journal.WriteRun(record); err != nil {
		log.Printf("[main] Warning: journal write failed: %v", err)
	} else {
		log.Printf("[main] Journal written to %s", path)
	}

	if *reportArg != "" {
		if err := backtest.WriteReport(*reportArg, summary); err != nil {
			log.Fatalf("[main] Failed to write report: %v", err)
		}
		log.Printf("[main] Report written to %s", *reportArg)
	}

	persist(context.Background(), svcCtx, runID, handles, summary)
}

func resolveHandles(svcCtx *svc.ServiceContext) []string {
	if *handlesArg != "" {
		var handles []string
		for _, h := range strings.Split(*handlesArg, ",") {
			if h = strings.TrimSpace(h); h != "" {
				handles = append(handles, scraper.NormalizeHandle(h))
			}
		}
		return handles
	}
	if svcCtx.ScraperConfig != nil {
		return svcCtx.ScraperConfig.Handles
	}
	return nil
}

func runPipeline(ctx context.Context, svcCtx *svc.ServiceContext, handles []string, record *journal.RunRecord) (*backtest.Summary, error) {
	limit := *limitArg
	if limit <= 0 && svcCtx.ScraperConfig != nil {
		limit = svcCtx.ScraperConfig.Limit
	}

	var tweets []scraper.Tweet
	for _, handle := range handles {
		timeline, err := svcCtx.Tweets.Timeline(ctx, handle, limit)
		if err != nil {
			return nil, fmt.Errorf("timeline %s: %w", handle, err)
		}
		log.Printf("[scrape] @%s: %d tweets", handle, len(timeline))
		tweets = append(tweets, timeline...)
	}
	record.TweetCount = len(tweets)

	signals, err := svcCtx.Extractor.ExtractBatch(ctx, tweets)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	record.SignalCount = len(signals)
	log.Printf("[extract] %d signals from %d tweets", len(signals), len(tweets))

	summary, err := svcCtx.Engine.SimulateBatch(ctx, signals)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	record.SkippedSignals = summary.SkippedSignals
	return summary, nil
}

func printSummary(summary *backtest.Summary) {
	if summary.Empty {
		fmt.Println("No positions were simulated.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Ticker", "Side", "Lev", "Entry", "Exit", "Reason", "PnL", "ROI%", "DD%")
	for _, o := range summary.Outcomes {
		table.Append(
			o.Ticker,
			side(o.Direction),
			fmt.Sprintf("%.0fx", o.Leverage),
			fmt.Sprintf("%.4g", o.EntryPrice),
			fmt.Sprintf("%.4g", o.ExitPrice),
			string(o.ExitReason),
			fmt.Sprintf("%+.2f", o.TotalPnL),
			fmt.Sprintf("%+.2f", o.ROIPercent),
			fmt.Sprintf("%.2f", o.MaxDrawdownPercent),
		)
	}
	table.Render()

	fmt.Printf("\nPositions: %d  Capital: $%.2f  PnL: %+.2f  ROI: %+.2f%%  Win rate: %.1f%%\n",
		summary.TotalPositions, summary.TotalCapital, summary.TotalPnL,
		summary.ROIPercent, summary.WinRate)
	if summary.SkippedSignals > 0 {
		fmt.Printf("Skipped signals: %d\n", summary.SkippedSignals)
	}
	if summary.BestTrade != nil {
		fmt.Printf("Best: %s %+.2f%%  Worst: %s %+.2f%%\n",
			summary.BestTrade.Ticker, summary.BestTrade.ROIPercent,
			summary.WorstTrade.Ticker, summary.WorstTrade.ROIPercent)
	}
}

func side(d sigpkg.Direction) string {
	if d == sigpkg.Short {
		return "SHORT"
	}
	return "LONG"
}

func persist(ctx context.Context, svcCtx *svc.ServiceContext, runID string, handles []string, summary *backtest.Summary) {
	if svcCtx.Repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, outcome := range summary.Outcomes {
		if err := svcCtx.Repo.Outcomes.Save(ctx, runID, outcome); err != nil {
			log.Printf("[persist] outcome %s: %v", outcome.Ticker, err)
		}
	}
	if err := svcCtx.Repo.Runs.SaveSummary(ctx, runID, handles, summary); err != nil {
		log.Printf("[persist] run summary: %v", err)
	}
}
