//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sigsim-api/pkg/llm"
)

type TweetSignal struct {
	Ticker     string    `json:"ticker"`
	Sentiment  string    `json:"sentiment"`
	Leverage   string    `json:"leverage"`
	EntryPrice float64   `json:"entry_price"`
	TakeProfit []float64 `json:"take_profits"`
	StopLoss   float64   `json:"stop_loss"`
}

func main() {
	cfg, err := llm.LoadConfig("../../etc/llm.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "Extract the trading signal from the tweet."},
			{Role: "user", Content: "Long $BTC here at 63k, 10x. Targets 65k / 67k / 70k, stop 60k."},
		},
	}

	var sig TweetSignal
	if _, err := client.ChatStructured(ctx, req, &sig); err != nil {
		log.Fatalf("structured chat failed: %v", err)
	}

	fmt.Printf("%s %s lev=%s entry=%.0f tps=%v sl=%.0f\n",
		sig.Sentiment, sig.Ticker, sig.Leverage, sig.EntryPrice, sig.TakeProfit, sig.StopLoss)
}
