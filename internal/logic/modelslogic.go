package logic

import (
	"context"
	"errors"
	"sort"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
)

type ModelsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewModelsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ModelsLogic {
	return &ModelsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Models lists the configured model aliases and the default model.
func (l *ModelsLogic) Models() (*types.ModelsResp, error) {
	cfg := l.svcCtx.LLMConfig
	if cfg == nil {
		return nil, errors.New("llm is not configured")
	}

	resp := &types.ModelsResp{
		DefaultModel: cfg.DefaultModel,
		Models:       make([]types.ModelView, 0, len(cfg.Models)),
	}
	for alias, mc := range cfg.Models {
		resp.Models = append(resp.Models, types.ModelView{
			Alias:     alias,
			Provider:  mc.Provider,
			ModelName: mc.ModelName,
		})
	}
	sort.Slice(resp.Models, func(i, j int) bool {
		return resp.Models[i].Alias < resp.Models[j].Alias
	})
	return resp, nil
}
