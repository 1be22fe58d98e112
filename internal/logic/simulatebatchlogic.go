package logic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
	"sigsim-api/pkg/signal"
)

type SimulateBatchLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSimulateBatchLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SimulateBatchLogic {
	return &SimulateBatchLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// SimulateBatch simulates every signal and aggregates the outcomes. Signals
// that fail to parse are counted as skipped rather than failing the batch.
func (l *SimulateBatchLogic) SimulateBatch(req *types.SimulateBatchReq) (*types.SimulateBatchResp, error) {
	if l.svcCtx.Engine == nil {
		return nil, errors.New("simulation engine is not configured")
	}
	if len(req.Signals) == 0 {
		return nil, errors.New("signals is required")
	}

	var (
		signals = make([]*signal.TradingSignal, 0, len(req.Signals))
		skipped int
	)
	for _, in := range req.Signals {
		sig, err := signalFromInput(in)
		if err != nil {
			l.Errorf("skip malformed signal %s: %v", in.Ticker, err)
			skipped++
			continue
		}
		signals = append(signals, sig)
	}

	summary, err := l.svcCtx.Engine.SimulateBatch(l.ctx, signals)
	if err != nil {
		return nil, err
	}
	summary.SkippedSignals += skipped

	runID := uuid.NewString()
	if l.svcCtx.Repo != nil {
		for _, outcome := range summary.Outcomes {
			if err := l.svcCtx.Repo.Outcomes.Save(l.ctx, runID, outcome); err != nil {
				l.Errorf("persist outcome for %s: %v", outcome.Ticker, err)
			}
		}
		if err := l.svcCtx.Repo.Runs.SaveSummary(l.ctx, runID, nil, summary); err != nil {
			l.Errorf("persist run summary %s: %v", runID, err)
		}
	}

	resp := &types.SimulateBatchResp{
		Summary:  viewFromSummary(summary),
		Outcomes: make([]types.OutcomeView, 0, len(summary.Outcomes)),
	}
	for _, outcome := range summary.Outcomes {
		resp.Outcomes = append(resp.Outcomes, viewFromOutcome(outcome))
	}
	return resp, nil
}
