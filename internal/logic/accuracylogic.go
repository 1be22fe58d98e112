package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
	"sigsim-api/pkg/backtest"
	"sigsim-api/pkg/signal"
)

type AccuracyLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAccuracyLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AccuracyLogic {
	return &AccuracyLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Accuracy grades a directional call against the realized price moves over
// the simulation window starting at Origin.
func (l *AccuracyLogic) Accuracy(req *types.AccuracyReq) (*types.AccuracyResp, error) {
	if l.svcCtx.Prices == nil {
		return nil, errors.New("price provider is not configured")
	}

	dir, err := signal.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	sim := l.svcCtx.Config.Simulation
	window := time.Duration(sim.WindowHours) * time.Hour
	step := time.Duration(sim.StepMinutes) * time.Minute

	origin := time.Now().UTC().Add(-window)
	if req.Origin != "" {
		origin, err = time.Parse(time.RFC3339, req.Origin)
		if err != nil {
			return nil, fmt.Errorf("parse origin: %w", err)
		}
		origin = origin.UTC()
	}

	steps := int(window / step)
	series, err := l.svcCtx.Prices.Series(l.ctx, req.Ticker, origin, steps, step)
	if err != nil {
		return nil, err
	}

	checks := backtest.SentimentAccuracy(series, dir, time.Hour, 4*time.Hour, window)
	resp := &types.AccuracyResp{
		Ticker:    req.Ticker,
		Direction: string(dir),
		Origin:    origin.Format(time.RFC3339),
		Checks:    make([]types.AccuracyCheckView, 0, len(checks)),
	}
	for _, c := range checks {
		resp.Checks = append(resp.Checks, types.AccuracyCheckView{
			Horizon:            c.Horizon,
			BasePrice:          c.BasePrice,
			TargetPrice:        c.TargetPrice,
			PriceChangePercent: c.PriceChangePercent,
			Correct:            c.Correct,
			Score:              c.Score,
		})
	}
	return resp, nil
}
