package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/repo"
	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
)

type RunsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRunsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RunsLogic {
	return &RunsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Runs lists recent batch runs, newest first.
func (l *RunsLogic) Runs(req *types.RunsReq) (*types.RunsResp, error) {
	if l.svcCtx.Repo == nil {
		return nil, errors.New("storage is not configured")
	}

	rows, err := l.svcCtx.Repo.Runs.Recent(l.ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	resp := &types.RunsResp{Runs: make([]types.RunView, 0, len(rows))}
	for _, row := range rows {
		resp.Runs = append(resp.Runs, viewFromRun(row))
	}
	return resp, nil
}

// Run returns one stored batch run by ID.
func (l *RunsLogic) Run(req *types.RunReq) (*types.RunResp, error) {
	if l.svcCtx.Repo == nil {
		return nil, errors.New("storage is not configured")
	}

	row, err := l.svcCtx.Repo.Runs.Get(l.ctx, req.RunID)
	if err != nil {
		return nil, err
	}
	return &types.RunResp{Run: viewFromRun(row)}, nil
}

func viewFromRun(row repo.RunRow) types.RunView {
	return types.RunView{
		RunID:           row.RunID,
		Handles:         row.Handles,
		TotalPositions:  row.TotalPositions,
		SkippedSignals:  row.SkippedSignals,
		TotalPnL:        row.TotalPnL,
		ROIPercent:      row.ROIPercent,
		WinRate:         row.WinRate,
		AverageROI:      row.AverageROI,
		AverageDrawdown: row.AverageDrawdown,
		CreatedAt:       formatTime(row.CreatedAt),
	}
}
