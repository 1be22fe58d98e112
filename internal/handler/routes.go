// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"sigsim-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/health",
				Handler: HealthHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/analyze",
				Handler: AnalyzeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/simulate",
				Handler: SimulateHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/simulate/batch",
				Handler: SimulateBatchHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outcomes",
				Handler: OutcomesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/runs",
				Handler: RunsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/runs/:runId",
				Handler: RunHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/models",
				Handler: ModelsHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/positions",
				Handler: PositionHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/accuracy",
				Handler: AccuracyHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api/v1"),
	)
}
