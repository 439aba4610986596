package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockScope/internal/domain/models"
	"StockScope/internal/usecase"

	"github.com/labstack/echo/v4"
)

type stubAnalyzer struct {
	out usecase.Outcome
	got []usecase.AnalysisParams
}

func (s *stubAnalyzer) Run(_ context.Context, p usecase.AnalysisParams) usecase.Outcome {
	s.got = append(s.got, p)
	return s.out
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, a *stubAnalyzer, target string) (int, envelope) {
	t.Helper()
	e := echo.New()
	NewAnalysisEchoHandler(nil, a).RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func okOutcome() usecase.Outcome {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := models.PriceSeries{Symbol: "TCS.NS"}
	dec := models.Decomposition{Period: 2}
	for i := 0; i < 4; i++ {
		series.Bars = append(series.Bars, models.Bar{Date: start.AddDate(0, 0, i), Open: 1, High: 2, Low: 1, Close: 1.5, Volume: 10})
		dec.Trend = append(dec.Trend, 1.5)
		dec.Seasonal = append(dec.Seasonal, 0)
		dec.Residual = append(dec.Residual, 0)
	}
	return usecase.Outcome{
		Status: usecase.StatusOK,
		Ticker: "TCS",
		Symbol: "TCS.NS",
		Report: &usecase.Report{
			Ticker: "TCS", Exchange: models.ExchangeIndia, Symbol: "TCS.NS",
			Company:        models.CompanyInfo{Name: "Tata Consultancy Services Limited", Industry: "IT Services", MarketCap: 1000},
			Series:         series,
			Recommendation: models.Sell,
			Decomposition:  dec,
		},
	}
}

func TestAnalysisOK(t *testing.T) {
	a := &stubAnalyzer{out: okOutcome()}
	code, env := do(t, a, "/api/analysis?ticker=TCS&exchange=India")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(a.got) != 1 || a.got[0].Ticker != "TCS" || a.got[0].Exchange != models.ExchangeIndia {
		t.Fatalf("unexpected params %+v", a.got)
	}
	var body struct {
		Title          string            `json:"title"`
		Recommendation string            `json:"recommendation"`
		Charts         []json.RawMessage `json:"charts"`
		Report         struct {
			Symbol string `json:"symbol"`
		} `json:"report"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.Title != "Company Information: Tata Consultancy Services Limited (TCS.NS)" || body.Recommendation != "Sell" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(body.Charts) != 3 || body.Report.Symbol != "TCS.NS" {
		t.Fatalf("expected 3 charts and report, got %d charts symbol %q", len(body.Charts), body.Report.Symbol)
	}
}

func TestAnalysisDefaultsExchange(t *testing.T) {
	a := &stubAnalyzer{out: okOutcome()}
	if code, _ := do(t, a, "/api/analysis?ticker=AAPL"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if a.got[0].Exchange != models.ExchangeUSA {
		t.Fatalf("expected USA default, got %q", a.got[0].Exchange)
	}
}

func TestAnalysisValidation(t *testing.T) {
	a := &stubAnalyzer{}
	for _, target := range []string{"/api/analysis", "/api/analysis?ticker=AAPL&exchange=Mars"} {
		code, env := do(t, a, target)
		if code != http.StatusBadRequest || env.Status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, code)
		}
	}
	if len(a.got) != 0 {
		t.Fatal("pipeline must not run on invalid input")
	}
}

func TestAnalysisNoData(t *testing.T) {
	a := &stubAnalyzer{out: usecase.Outcome{Status: usecase.StatusNoData, Symbol: "ZZZ"}}
	code, env := do(t, a, "/api/analysis?ticker=ZZZ")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	var errs []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &errs); err != nil || len(errs) != 1 {
		t.Fatalf("decode errors: %v %s", err, env.Data)
	}
	if errs[0].Message != "No data found for the given stock symbol. Please enter a valid symbol." {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
}

func TestAnalysisFailureStatuses(t *testing.T) {
	cases := map[usecase.Reason]int{
		usecase.ReasonInput:         http.StatusBadRequest,
		usecase.ReasonFetch:         http.StatusBadGateway,
		usecase.ReasonMetadata:      http.StatusBadGateway,
		usecase.ReasonSignal:        http.StatusUnprocessableEntity,
		usecase.ReasonDecomposition: http.StatusUnprocessableEntity,
	}
	for reason, want := range cases {
		a := &stubAnalyzer{out: usecase.Outcome{Status: usecase.StatusFailed, Reason: reason, Err: errors.New("boom")}}
		code, env := do(t, a, "/api/analysis?ticker=AAPL")
		if code != want {
			t.Fatalf("%s: expected %d, got %d", reason, want, code)
		}
		var errs []struct {
			Message string                 `json:"message"`
			Params  map[string]interface{} `json:"params"`
		}
		if err := json.Unmarshal(env.Data, &errs); err != nil || len(errs) != 1 {
			t.Fatalf("%s: decode errors: %v", reason, err)
		}
		if errs[0].Message != "Error: boom" || errs[0].Params["reason"] != string(reason) {
			t.Fatalf("%s: unexpected error %+v", reason, errs[0])
		}
	}
}

func TestExchanges(t *testing.T) {
	code, env := do(t, &stubAnalyzer{}, "/api/exchanges")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var list []ExchangeResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 5 || list[0].Name != models.ExchangeIndia || list[0].Suffix != ".NS" || list[1].Suffix != "" {
		t.Fatalf("unexpected exchanges %+v", list)
	}
}
