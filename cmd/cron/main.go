package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"sigsim-api/internal/cli"
	"sigsim-api/internal/config"
	"sigsim-api/internal/svc"
	"sigsim-api/pkg/journal"
	"sigsim-api/pkg/scraper"
)

const (
	pipelineInterval = 30 * time.Minute // Full scrape -> extract -> simulate cycle
	priceInterval    = 5 * time.Minute  // Price provider liveness probe
	apiTimeout       = 5 * time.Minute  // Timeout for one pipeline cycle
	shutdownTimeout  = 10 * time.Second // Grace period for shutdown
)

var probeTickers = []string{"BTC", "ETH", "SOL"}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting signal monitor...")

	// Load application configuration
	configPath := "etc/sigsim.yaml"
	appCfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[main] Failed to load app config: %v", err)
	}

	// Log configuration information
	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	svcCtx := svc.NewServiceContext(*appCfg)
	if svcCtx.Tweets == nil || svcCtx.Extractor == nil || svcCtx.Engine == nil {
		log.Fatalf("[main] Scraper, extractor and prices sections are all required")
	}

	handles := []string(nil)
	if svcCtx.ScraperConfig != nil {
		handles = svcCtx.ScraperConfig.Handles
	}
	if len(handles) == 0 {
		log.Fatalf("[main] No handles configured in scraper config")
	}
	log.Printf("  - Monitored Handles: %v", handles)
	log.Printf("  - Intervals: pipeline=%s, prices=%s", pipelineInterval, priceInterval)

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create wait group for goroutines
	var wg sync.WaitGroup

	// Start pipeline task
	wg.Add(1)
	go func() {
		defer wg.Done()
		runPipelineLoop(ctx, svcCtx, handles)
	}()

	// Start price probe task
	wg.Add(1)
	go func() {
		defer wg.Done()
		runPriceProbe(ctx, svcCtx)
	}()

	log.Println("[main] Signal monitor started. Press Ctrl+C to stop.")

	// Wait for signal
	<-ctx.Done()
	log.Println("[main] Shutdown signal received, stopping tasks...")

	// Give tasks time to complete current work
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[main] All tasks stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}

	log.Println("[main] Signal monitor stopped")
}

// runPipelineLoop runs the full pipeline on a schedule
func runPipelineLoop(ctx context.Context, svcCtx *svc.ServiceContext, handles []string) {
	ticker := time.NewTicker(pipelineInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	runPipelineOnce(ctx, svcCtx, handles)

	for {
		select {
		case <-ctx.Done():
			log.Println("[pipeline] Stopping pipeline loop")
			return
		case <-ticker.C:
			runPipelineOnce(ctx, svcCtx, handles)
		}
	}
}

func runPipelineOnce(parentCtx context.Context, svcCtx *svc.ServiceContext, handles []string) {
	if parentCtx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
	defer cancel()

	runID := uuid.NewString()
	record := &journal.RunRecord{
		RunID:        runID,
		Handles:      handles,
		PromptDigest: svcCtx.PromptDigest,
	}

	limit := 0
	if svcCtx.ScraperConfig != nil {
		limit = svcCtx.ScraperConfig.Limit
	}

	var tweets []scraper.Tweet
	for _, handle := range handles {
		timeline, err := svcCtx.Tweets.Timeline(ctx, handle, limit)
		if err != nil {
			log.Printf("[pipeline] timeline @%s: %v", handle, err)
			continue
		}
		tweets = append(tweets, timeline...)
	}
	record.TweetCount = len(tweets)
	if len(tweets) == 0 {
		log.Println("[pipeline] No tweets collected, skipping cycle")
		return
	}

	signals, err := svcCtx.Extractor.ExtractBatch(ctx, tweets)
	if err != nil {
		log.Printf("[pipeline] extract: %v", err)
		record.Success = false
		record.ErrorMessage = err.Error()
		writeJournal(svcCtx, record)
		return
	}
	record.SignalCount = len(signals)

	summary, err := svcCtx.Engine.SimulateBatch(ctx, signals)
	if err != nil {
		log.Printf("[pipeline] simulate: %v", err)
		record.Success = false
		record.ErrorMessage = err.Error()
		writeJournal(svcCtx, record)
		return
	}
	record.SkippedSignals = summary.SkippedSignals
	record.Success = true
	if data, err := json.Marshal(summary); err == nil {
		record.SummaryJSON = string(data)
	}
	writeJournal(svcCtx, record)

	log.Printf("[pipeline] run %s: %d tweets, %d signals, %d positions, pnl %+.2f",
		runID[:8], len(tweets), len(signals), summary.TotalPositions, summary.TotalPnL)

	if svcCtx.Repo != nil {
		for _, outcome := range summary.Outcomes {
			if err := svcCtx.Repo.Outcomes.Save(ctx, runID, outcome); err != nil {
				log.Printf("[pipeline] persist outcome %s: %v", outcome.Ticker, err)
			}
		}
		if err := svcCtx.Repo.Runs.SaveSummary(ctx, runID, handles, summary); err != nil {
			log.Printf("[pipeline] persist run: %v", err)
		}
	}
}

func writeJournal(svcCtx *svc.ServiceContext, record *journal.RunRecord) {
	if svcCtx.Journal == nil {
		return
	}
	if _, err := svcCtx.Journal.WriteRun(record); err != nil {
		log.Printf("[pipeline] journal: %v", err)
	}
}

// runPriceProbe keeps an eye on the price provider between pipeline cycles
func runPriceProbe(ctx context.Context, svcCtx *svc.ServiceContext) {
	ticker := time.NewTicker(priceInterval)
	defer ticker.Stop()

	probePrices(ctx, svcCtx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[prices] Stopping price probe")
			return
		case <-ticker.C:
			probePrices(ctx, svcCtx)
		}
	}
}

func probePrices(parentCtx context.Context, svcCtx *svc.ServiceContext) {
	if parentCtx.Err() != nil || svcCtx.Prices == nil {
		return
	}
	ctx, cancel := context.WithTimeout(parentCtx, 30*time.Second)
	defer cancel()

	start := time.Now().Add(-10 * time.Minute).UTC()
	for _, ticker := range probeTickers {
		series, err := svcCtx.Prices.Series(ctx, ticker, start, 1, time.Minute)
		if err != nil {
			log.Printf("[prices] %s: %v", ticker, err)
			continue
		}
		if series.Empty() {
			continue
		}
		log.Printf("[prices] %s: %.4f", ticker, series.Last().Price)
		if svcCtx.Repo != nil {
			if err := svcCtx.Repo.Prices.SaveTicks(ctx, ticker, series); err != nil {
				log.Printf("[prices] save %s: %v", ticker, err)
			}
		}
	}
}
