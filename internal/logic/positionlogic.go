package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
	"sigsim-api/pkg/backtest"
)

type PositionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPositionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PositionLogic {
	return &PositionLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Position computes sizing and the liquidation level for a signal without
// simulating it.
func (l *PositionLogic) Position(req *types.PositionReq) (*types.PositionResp, error) {
	sig, err := signalFromInput(req.Signal)
	if err != nil {
		return nil, err
	}

	capital := req.Capital
	if capital <= 0 {
		capital = l.svcCtx.Config.Simulation.InitialCapital
	}

	plan := backtest.PlanPosition(sig, capital)
	return &types.PositionResp{Plan: types.PositionView{
		Ticker:           plan.Ticker,
		Direction:        string(plan.Direction),
		Leverage:         plan.Leverage,
		EntryPrice:       plan.EntryPrice,
		Capital:          plan.Capital,
		PositionSize:     plan.PositionSize,
		NotionalValue:    plan.NotionalValue,
		LiquidationPrice: plan.LiquidationPrice,
		StopLoss:         plan.StopLoss,
		TakeProfits:      plan.TakeProfits,
	}}, nil
}
