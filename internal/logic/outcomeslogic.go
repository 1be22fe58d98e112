package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
)

type OutcomesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOutcomesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OutcomesLogic {
	return &OutcomesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Outcomes lists stored simulation results, optionally filtered by ticker.
func (l *OutcomesLogic) Outcomes(req *types.OutcomesReq) (*types.OutcomesResp, error) {
	if l.svcCtx.Repo == nil {
		return nil, errors.New("storage is not configured")
	}

	records, err := l.svcCtx.Repo.Outcomes.ListByTicker(l.ctx, req.Ticker, req.Limit)
	if err != nil {
		return nil, err
	}

	resp := &types.OutcomesResp{
		Outcomes: make([]types.StoredOutcomeView, 0, len(records)),
	}
	for _, rec := range records {
		resp.Outcomes = append(resp.Outcomes, viewFromStoredOutcome(rec))
	}
	return resp, nil
}
