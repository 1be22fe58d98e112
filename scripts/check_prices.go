// Quick connectivity probe for the configured price provider. Fetches a short
// BTC series and prints the window so provider/API-key issues surface before
// a full pipeline run.
//
// Usage: go run ./scripts/check_prices.go [TICKER]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sigsim-api/internal/config"
	"sigsim-api/pkg/prices"
)

func main() {
	ticker := "BTC"
	if len(os.Args) > 1 {
		ticker = os.Args[1]
	}

	cfg := config.MustLoadPrices()
	provider, err := prices.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build provider: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now().Add(-2 * time.Hour).UTC()
	series, err := provider.Series(ctx, ticker, start, 10, 10*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "series %s: %v\n", ticker, err)
		os.Exit(1)
	}

	fmt.Printf("provider=%s ticker=%s samples=%d\n", cfg.Provider, ticker, len(series))
	for _, s := range series {
		fmt.Printf("  %s  %.4f\n", s.Time.UTC().Format(time.RFC3339), s.Price)
	}
}
