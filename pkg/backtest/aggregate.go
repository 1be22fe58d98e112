package backtest

// Aggregate folds a batch of outcomes into a Summary. Aggregating nothing
// returns a Summary with Empty set and no statistics; ties for best and worst
// trade go to the earliest outcome in the slice.
func Aggregate(outcomes []*Outcome) *Summary {
	if len(outcomes) == 0 {
		return &Summary{Empty: true}
	}

	s := &Summary{
		TotalPositions: len(outcomes),
		Outcomes:       outcomes,
		BestTrade:      outcomes[0],
		WorstTrade:     outcomes[0],
	}
	var roiSum, ddSum float64
	for _, out := range outcomes {
		s.TotalCapital += out.InitialCapital
		s.TotalPnL += out.TotalPnL
		roiSum += out.ROIPercent
		ddSum += out.MaxDrawdownPercent
		if out.TotalPnL > 0 {
			s.ProfitableCount++
		} else if out.TotalPnL < 0 {
			s.LosingCount++
		}
		if out.ROIPercent > s.BestTrade.ROIPercent {
			s.BestTrade = out
		}
		if out.ROIPercent < s.WorstTrade.ROIPercent {
			s.WorstTrade = out
		}
	}
	n := float64(len(outcomes))
	s.WinRate = float64(s.ProfitableCount) / n * 100
	s.AverageROI = roiSum / n
	s.AverageDrawdown = ddSum / n
	if s.TotalCapital > 0 {
		s.ROIPercent = s.TotalPnL / s.TotalCapital * 100
	}
	return s
}
