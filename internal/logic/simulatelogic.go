package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/google/uuid"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
)

type SimulateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSimulateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SimulateLogic {
	return &SimulateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Simulate runs one signal through the walk-forward engine.
func (l *SimulateLogic) Simulate(req *types.SimulateReq) (*types.SimulateResp, error) {
	if l.svcCtx.Engine == nil {
		return nil, errors.New("simulation engine is not configured")
	}

	sig, err := signalFromInput(req.Signal)
	if err != nil {
		return nil, err
	}

	outcome, err := l.svcCtx.Engine.SimulateSignal(l.ctx, sig)
	if err != nil {
		return nil, err
	}

	if l.svcCtx.Repo != nil {
		runID := uuid.NewString()
		if err := l.svcCtx.Repo.Outcomes.Save(l.ctx, runID, outcome); err != nil {
			l.Errorf("persist outcome for %s: %v", outcome.Ticker, err)
		}
	}

	return &types.SimulateResp{Outcome: viewFromOutcome(outcome)}, nil
}
