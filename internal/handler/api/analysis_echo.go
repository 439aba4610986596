package api

import (
	"context"

	"StockScope/internal/domain/models"
	"StockScope/internal/presenter"
	"StockScope/internal/usecase"
	xhttp "StockScope/pkg/http"
	xlogger "StockScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Analyzer runs the analysis pipeline for one request.
type Analyzer interface {
	Run(ctx context.Context, p usecase.AnalysisParams) usecase.Outcome
}

// AnalysisEchoHandler serves the JSON API.
type AnalysisEchoHandler struct {
	logger *xlogger.Logger
	uc     Analyzer
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, uc Analyzer) *AnalysisEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisEchoHandler{logger: logger, uc: uc}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/exchanges", h.Exchanges)
}

// AnalysisResponse is the payload of a successful analysis.
type AnalysisResponse struct {
	presenter.View
	Report *usecase.Report `json:"report"`
}

type ExchangeResponse struct {
	Name   models.Exchange `json:"name"`
	Suffix string          `json:"suffix"`
}

func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out := h.uc.Run(c.Request().Context(), usecase.AnalysisParams{
		Ticker:   req.Ticker,
		Exchange: models.Exchange(req.Exchange),
	})
	view := presenter.Present(out)

	switch out.Status {
	case usecase.StatusOK:
		return xhttp.SuccessResponse(c, AnalysisResponse{View: view, Report: out.Report})
	case usecase.StatusNoData:
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(view.Warning).WithParam("symbol", out.Symbol))
	default:
		h.logger.Warn("analysis request failed",
			xlogger.String("symbol", out.Symbol),
			xlogger.String("reason", string(out.Reason)),
			xlogger.Error(out.Err),
		)
		return xhttp.AppErrorResponse(c, failureError(out, view.Warning))
	}
}

// failureError maps a failure reason to its HTTP status.
func failureError(out usecase.Outcome, message string) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch out.Reason {
	case usecase.ReasonInput:
		appErr = xhttp.BadRequestError(message)
	case usecase.ReasonFetch, usecase.ReasonMetadata:
		appErr = xhttp.BadGatewayError(message)
	case usecase.ReasonSignal, usecase.ReasonDecomposition:
		appErr = xhttp.UnprocessableError(message)
	default:
		appErr = xhttp.InternalError(message)
	}
	return appErr.WithParam("reason", string(out.Reason)).WithParam("symbol", out.Symbol).WithError(out.Err)
}

func (h *AnalysisEchoHandler) Exchanges(c echo.Context) error {
	res := make([]ExchangeResponse, 0, len(models.Exchanges))
	for _, e := range models.Exchanges {
		res = append(res, ExchangeResponse{Name: e, Suffix: e.Suffix()})
	}
	return xhttp.SuccessResponse(c, res)
}
