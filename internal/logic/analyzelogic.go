package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"sigsim-api/internal/svc"
	"sigsim-api/internal/types"
	"sigsim-api/pkg/scraper"
)

type AnalyzeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAnalyzeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalyzeLogic {
	return &AnalyzeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Analyze extracts trading signals from a timeline or from inline tweets.
func (l *AnalyzeLogic) Analyze(req *types.AnalyzeReq) (*types.AnalyzeResp, error) {
	if l.svcCtx.Extractor == nil {
		return nil, errors.New("extractor is not configured")
	}

	tweets, err := l.collectTweets(req)
	if err != nil {
		return nil, err
	}

	signals, err := l.svcCtx.Extractor.ExtractBatch(l.ctx, tweets)
	if err != nil {
		return nil, err
	}

	resp := &types.AnalyzeResp{
		Signals: make([]types.SignalView, 0, len(signals)),
		Skipped: len(tweets) - len(signals),
	}
	for _, sig := range signals {
		resp.Signals = append(resp.Signals, viewFromSignal(sig))
	}
	return resp, nil
}

func (l *AnalyzeLogic) collectTweets(req *types.AnalyzeReq) ([]scraper.Tweet, error) {
	switch {
	case req.Handle != "" && len(req.Tweets) > 0:
		return nil, errors.New("provide either handle or tweets, not both")
	case req.Handle != "":
		if l.svcCtx.Tweets == nil {
			return nil, errors.New("tweet source is not configured")
		}
		limit := req.Limit
		if limit <= 0 && l.svcCtx.ScraperConfig != nil {
			limit = l.svcCtx.ScraperConfig.Limit
		}
		return l.svcCtx.Tweets.Timeline(l.ctx, req.Handle, limit)
	case len(req.Tweets) > 0:
		tweets := make([]scraper.Tweet, 0, len(req.Tweets))
		for _, in := range req.Tweets {
			tweet, err := tweetFromInput(in)
			if err != nil {
				return nil, err
			}
			tweets = append(tweets, tweet)
		}
		return tweets, nil
	default:
		return nil, errors.New("handle or tweets is required")
	}
}
