package logic

import (
	"fmt"
	"time"

	"sigsim-api/internal/repo"
	"sigsim-api/internal/types"
	"sigsim-api/pkg/backtest"
	"sigsim-api/pkg/scraper"
	"sigsim-api/pkg/signal"
)

func signalFromInput(in types.SignalInput) (*signal.TradingSignal, error) {
	dir, err := signal.ParseDirection(in.Direction)
	if err != nil {
		return nil, err
	}
	sig := &signal.TradingSignal{
		Ticker:      in.Ticker,
		Direction:   dir,
		Leverage:    in.Leverage,
		EntryPrice:  in.EntryPrice,
		TakeProfits: in.TakeProfits,
		StopLoss:    in.StopLoss,
	}
	if sig.Leverage <= 0 {
		sig.Leverage = 1
	}
	if in.Origin != "" {
		origin, err := time.Parse(time.RFC3339, in.Origin)
		if err != nil {
			return nil, fmt.Errorf("parse origin: %w", err)
		}
		sig.Origin = origin.UTC()
	} else {
		sig.Origin = time.Now().UTC()
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

func tweetFromInput(in types.TweetInput) (scraper.Tweet, error) {
	tweet := scraper.Tweet{
		ID:     in.ID,
		Author: in.Author,
		Text:   in.Text,
	}
	if in.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, in.CreatedAt)
		if err != nil {
			return tweet, fmt.Errorf("parse created_at: %w", err)
		}
		tweet.CreatedAt = created.UTC()
	}
	return tweet, nil
}

func viewFromSignal(sig *signal.TradingSignal) types.SignalView {
	return types.SignalView{
		Ticker:      sig.Ticker,
		Direction:   string(sig.Direction),
		Leverage:    sig.Leverage,
		EntryPrice:  sig.EntryPrice,
		TakeProfits: sig.TakeProfits,
		StopLoss:    sig.StopLoss,
		Origin:      formatTime(sig.Origin),
		SourceText:  sig.SourceText,
	}
}

func viewFromOutcome(o *backtest.Outcome) types.OutcomeView {
	view := types.OutcomeView{
		Ticker:                o.Ticker,
		Direction:             string(o.Direction),
		Leverage:              o.Leverage,
		EntryPrice:            o.EntryPrice,
		ExitPrice:             o.ExitPrice,
		ExitReason:            string(o.ExitReason),
		ExitTime:              formatTime(o.ExitTime),
		InitialCapital:        o.InitialCapital,
		RealizedPnL:           o.RealizedPnL,
		UnrealizedPnL:         o.UnrealizedPnL,
		TotalPnL:              o.TotalPnL,
		ROIPercent:            o.ROIPercent,
		MaxDrawdownPercent:    o.MaxDrawdownPercent,
		PositionClosedPercent: o.PositionClosedPercent,
		PartialExits:          make([]types.PartialExitView, 0, len(o.PartialExits)),
	}
	for _, pe := range o.PartialExits {
		view.PartialExits = append(view.PartialExits, types.PartialExitView{
			Level:     pe.Level,
			ExitPrice: pe.ExitPrice,
			Fraction:  pe.Fraction,
			PnL:       pe.PnL,
			Time:      formatTime(pe.Time),
		})
	}
	return view
}

func viewFromSummary(s *backtest.Summary) types.SummaryView {
	view := types.SummaryView{
		Empty:           s.Empty,
		TotalPositions:  s.TotalPositions,
		TotalCapital:    s.TotalCapital,
		TotalPnL:        s.TotalPnL,
		ROIPercent:      s.ROIPercent,
		ProfitableCount: s.ProfitableCount,
		LosingCount:     s.LosingCount,
		WinRate:         s.WinRate,
		AverageROI:      s.AverageROI,
		AverageDrawdown: s.AverageDrawdown,
		SkippedSignals:  s.SkippedSignals,
	}
	if s.BestTrade != nil {
		best := viewFromOutcome(s.BestTrade)
		view.BestTrade = &best
	}
	if s.WorstTrade != nil {
		worst := viewFromOutcome(s.WorstTrade)
		view.WorstTrade = &worst
	}
	return view
}

func viewFromStoredOutcome(rec repo.OutcomeRecord) types.StoredOutcomeView {
	view := types.OutcomeView{
		Ticker:                rec.Ticker,
		Direction:             rec.Direction,
		Leverage:              rec.Leverage,
		EntryPrice:            rec.EntryPrice,
		ExitReason:            rec.ExitReason,
		InitialCapital:        rec.InitialCapital,
		RealizedPnL:           rec.RealizedPnL,
		UnrealizedPnL:         rec.UnrealizedPnL,
		TotalPnL:              rec.TotalPnL,
		ROIPercent:            rec.ROIPercent,
		MaxDrawdownPercent:    rec.MaxDrawdownPercent,
		PositionClosedPercent: rec.PositionClosedPercent,
		PartialExits:          make([]types.PartialExitView, 0, len(rec.PartialExits)),
	}
	if rec.ExitPrice != nil {
		view.ExitPrice = *rec.ExitPrice
	}
	if rec.ExitTime != nil {
		view.ExitTime = formatTime(*rec.ExitTime)
	}
	for _, pe := range rec.PartialExits {
		view.PartialExits = append(view.PartialExits, types.PartialExitView{
			Level:     pe.Level,
			ExitPrice: pe.ExitPrice,
			Fraction:  pe.Fraction,
			PnL:       pe.PnL,
			Time:      formatTime(pe.Time),
		})
	}
	return types.StoredOutcomeView{
		RunID:   rec.RunID,
		Saved:   formatTime(rec.CreatedAt),
		Outcome: view,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
