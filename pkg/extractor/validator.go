package extractor

import (
	"errors"
	"fmt"

	"sigsim-api/pkg/signal"
)

// ErrUnknownTicker marks a signal whose ticker is outside the supported
// currency list.
var ErrUnknownTicker = errors.New("extractor: unknown ticker")

// ValidateLevels checks that extracted price levels sit on the correct side
// of the entry. Signals without an entry price are accepted as-is because the
// entry is only known once the first price sample arrives.
func ValidateLevels(sig *signal.TradingSignal) error {
	if sig.EntryPrice <= 0 {
		return nil
	}
	switch sig.Direction {
	case signal.Long:
		for i, tp := range sig.TakeProfits {
			if tp <= sig.EntryPrice {
				return fmt.Errorf("extractor: long take_profit[%d] %.4f must exceed entry %.4f", i, tp, sig.EntryPrice)
			}
		}
		if sig.StopLoss > 0 && sig.StopLoss >= sig.EntryPrice {
			return fmt.Errorf("extractor: long stop_loss %.4f must be below entry %.4f", sig.StopLoss, sig.EntryPrice)
		}
	case signal.Short:
		for i, tp := range sig.TakeProfits {
			if tp >= sig.EntryPrice {
				return fmt.Errorf("extractor: short take_profit[%d] %.4f must be below entry %.4f", i, tp, sig.EntryPrice)
			}
		}
		if sig.StopLoss > 0 && sig.StopLoss <= sig.EntryPrice {
			return fmt.Errorf("extractor: short stop_loss %.4f must exceed entry %.4f", sig.StopLoss, sig.EntryPrice)
		}
	default:
		return fmt.Errorf("extractor: direction %q is not tradable", sig.Direction)
	}
	return nil
}
