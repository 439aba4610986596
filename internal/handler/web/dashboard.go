package web

import (
	"context"
	"net/http"
	"strings"

	"StockScope/internal/domain/models"
	"StockScope/internal/presenter"
	"StockScope/internal/usecase"
	xhttp "StockScope/pkg/http"
	xlogger "StockScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

const dashboardTemplate = "dashboard.html"

// Analyzer runs the analysis pipeline for one request.
type Analyzer interface {
	Run(ctx context.Context, p usecase.AnalysisParams) usecase.Outcome
}

// DashboardHandler serves the browser dashboard.
type DashboardHandler struct {
	logger *xlogger.Logger
	uc     Analyzer
}

func NewDashboardHandler(logger *xlogger.Logger, uc Analyzer) *DashboardHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &DashboardHandler{logger: logger, uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Dashboard)
}

type dashboardPage struct {
	Exchanges []models.Exchange
	Selected  models.Exchange
	Ticker    string
	Submitted bool
	Errors    []string
	View      presenter.View
}

// Dashboard renders the form and, once a ticker is entered, the analysis.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	page := dashboardPage{Exchanges: models.Exchanges, Selected: models.ExchangeUSA}

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadRequest(c, req); verr != nil {
		page.Errors = validationMessages(verr)
		return c.Render(http.StatusBadRequest, dashboardTemplate, page)
	}
	page.Selected = models.Exchange(req.Exchange)
	page.Ticker = req.Ticker

	// Nothing to analyse until a ticker is entered.
	if strings.TrimSpace(req.Ticker) == "" {
		return c.Render(http.StatusOK, dashboardTemplate, page)
	}
	if verr := xhttp.ValidateRequest(c.Request().Context(), req); verr != nil {
		page.Errors = validationMessages(verr)
		return c.Render(http.StatusBadRequest, dashboardTemplate, page)
	}

	page.Submitted = true
	out := h.uc.Run(c.Request().Context(), usecase.AnalysisParams{
		Ticker:   req.Ticker,
		Exchange: page.Selected,
	})
	page.View = presenter.Present(out)
	if out.Status == usecase.StatusFailed {
		h.logger.Warn("dashboard analysis failed",
			xlogger.String("symbol", out.Symbol),
			xlogger.String("reason", string(out.Reason)),
			xlogger.Error(out.Err),
		)
	}
	// Warnings are part of the page, so the page itself is always 200.
	return c.Render(http.StatusOK, dashboardTemplate, page)
}

func validationMessages(verr interface{}) []string {
	errs, ok := verr.([]xhttp.ValidationError)
	if !ok {
		return []string{"invalid request"}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}
