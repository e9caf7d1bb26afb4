package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/banachtech/zebra-engine/analytic"
	mockapi "github.com/banachtech/zebra-engine/api/mock"
	"github.com/banachtech/zebra-engine/logging"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/pricer"
	"github.com/banachtech/zebra-engine/risk"
)

func params() option.Params {
	return option.Params{Spot: 100, Strike: 100, Vol: 0.2, Maturity: 1, Rate: 0.05, Type: option.Call}
}

func testServer(t *testing.T, engine Engine) *Server {
	cfg := DefaultConfig()
	cfg.Mode = gin.TestMode
	return NewServer(cfg, engine, logging.Discard())
}

func post(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	request, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, request)
	return recorder
}

func TestPriceAPI(t *testing.T) {
	req := pricer.Request{Model: pricer.BlackScholes, Params: params()}
	out := analytic.BlackScholes(params())

	testCases := []struct {
		name          string
		body          any
		buildStubs    func(engine *mockapi.MockEngine)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: req,
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().Price(gomock.Any(), gomock.Eq(req)).Times(1).Return(out, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var got option.Outcome
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.InDelta(t, out.Price, got.Price, 1e-12)
				require.Equal(t, option.SourceAnalytic, got.GreeksSource)
			},
		},
		{
			name: "MISSING_MODEL",
			body: gin.H{"params": params()},
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "INVALID_PARAMS",
			body: req,
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(1).
					Return(option.Outcome{}, fmt.Errorf("%w: spot must be positive", option.ErrInvalidParams))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, recorder.Body.String(), "spot must be positive")
			},
		},
		{
			name: "UNKNOWN_MODEL",
			body: req,
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(1).Return(option.Outcome{}, pricer.ErrUnknownModel)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "CANCELLED",
			body: req,
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(1).Return(option.Outcome{}, context.Canceled)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			},
		},
		{
			name: "INTERNAL_SERVER_ERROR",
			body: req,
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(1).Return(option.Outcome{}, fmt.Errorf("boom"))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := mockapi.NewMockEngine(ctrl)
			tc.buildStubs(engine)

			recorder := post(t, testServer(t, engine), "/v1/price", tc.body)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestImpliedVolAPI(t *testing.T) {
	testCases := []struct {
		name          string
		body          any
		buildStubs    func(engine *mockapi.MockEngine)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: ivRequest{Price: 10.45, Params: params()},
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().ImpliedVol(gomock.Any(), gomock.Eq(10.45), gomock.Eq(params()), gomock.Eq(analytic.IVOptions{})).
					Times(1).Return(analytic.IVResult{Vol: 0.2, Iterations: 3, Converged: true}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var got ivResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.True(t, got.Converged)
				require.Equal(t, 0.2, got.Vol)
				require.Empty(t, got.Error)
			},
		},
		{
			name: "NOT_CONVERGED",
			body: ivRequest{Price: 1, Params: params()},
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().ImpliedVol(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).Return(analytic.IVResult{Vol: 0.001, Iterations: 100}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
				var got ivResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.False(t, got.Converged)
				require.Equal(t, 100, got.Iterations)
				require.Contains(t, got.Error, "did not converge")
			},
		},
		{
			name: "NON_POSITIVE_PRICE",
			body: ivRequest{Price: -1, Params: params()},
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().ImpliedVol(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "INVALID_PARAMS",
			body: ivRequest{Price: 1, Params: params()},
			buildStubs: func(engine *mockapi.MockEngine) {
				engine.EXPECT().ImpliedVol(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).Return(analytic.IVResult{}, option.ErrInvalidParams)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := mockapi.NewMockEngine(ctrl)
			tc.buildStubs(engine)

			recorder := post(t, testServer(t, engine), "/v1/iv", tc.body)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestSweepAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := mockapi.NewMockEngine(ctrl)
	engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(6).DoAndReturn(
		func(_ context.Context, req pricer.Request) (option.Outcome, error) {
			return option.Outcome{Price: req.Params.Spot, Greeks: option.Greeks{Delta: req.Params.Maturity}}, nil
		})
	server := testServer(t, engine)

	recorder := post(t, server, "/v1/sweep", gin.H{
		"base":   pricer.Request{Model: pricer.BlackScholes, Params: params()},
		"spots":  []float64{90, 100, 110},
		"days":   []float64{0, 365},
		"fields": []string{"price", "delta"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var got sweepResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, [][]float64{{90, 100, 110}, {90, 100, 110}}, got.Matrices["price"])
	require.Equal(t, [][]float64{{0, 0, 0}, {1, 1, 1}}, got.Matrices["delta"])
}

func TestSweepAPIRejects(t *testing.T) {
	testCases := []struct {
		name string
		body any
	}{
		{"TOO_MANY_CELLS", gin.H{"base": pricer.Request{Model: pricer.BlackScholes, Params: params()}, "spots": make([]float64, 300), "days": make([]float64, 10)}},
		{"INVALID_BASE", gin.H{"base": pricer.Request{Model: pricer.Heston, Params: params()}}},
		{"UNKNOWN_FIELD", gin.H{"base": pricer.Request{Model: pricer.BlackScholes, Params: params()}, "spots": []float64{100}, "days": []float64{1}, "fields": []string{"charm"}}},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := mockapi.NewMockEngine(ctrl)
			engine.EXPECT().Price(gomock.Any(), gomock.Any()).AnyTimes().Return(option.Outcome{}, nil)
			recorder := post(t, testServer(t, engine), "/v1/sweep", tc.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestScenarioAPI(t *testing.T) {
	server := testServer(t, mockapi.NewMockEngine(gomock.NewController(t)))
	book := []risk.Position{{Symbol: "AAPL", Params: params(), Quantity: 10}}

	recorder := post(t, server, "/v1/scenario", bookRequest{Positions: book})
	require.Equal(t, http.StatusOK, recorder.Code)
	var rep risk.StressReport
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rep))
	require.Len(t, rep.Results, len(risk.Scenarios))
	require.Equal(t, "Black Swan Event", rep.Worst.Name)

	recorder = post(t, server, "/v1/scenario", bookRequest{Positions: book, Scenarios: []risk.Scenario{{Name: "Flat"}}})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rep))
	require.Len(t, rep.Results, 1)

	recorder = post(t, server, "/v1/scenario", bookRequest{})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = post(t, server, "/v1/scenario", bookRequest{Positions: []risk.Position{{Params: params()}}})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPortfolioAPI(t *testing.T) {
	server := testServer(t, mockapi.NewMockEngine(gomock.NewController(t)))
	book := []risk.Position{
		{Symbol: "AAPL", Params: params(), Quantity: 10},
		{Symbol: "AAPL", Kind: risk.Stock, Params: option.Params{Spot: 100}, Quantity: -600},
	}

	recorder := post(t, server, "/v1/portfolio", bookRequest{Positions: book})
	require.Equal(t, http.StatusOK, recorder.Code)
	var sum risk.Summary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &sum))
	require.Len(t, sum.Positions, 2)
	require.InDelta(t, 1000*analytic.BlackScholes(params()).Greeks.Delta-600, sum.Greeks.Delta, 1e-9)
	require.Equal(t, risk.Low, sum.Levels[option.GreekDelta])
}

func TestHealthAndMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine := mockapi.NewMockEngine(ctrl)
	engine.EXPECT().Price(gomock.Any(), gomock.Any()).Times(1).Return(option.Outcome{Price: 1}, nil)
	server := testServer(t, engine)

	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	post(t, server, "/v1/price", pricer.Request{Model: pricer.BlackScholes, Params: params()})

	recorder = httptest.NewRecorder()
	request, err = http.NewRequest(http.MethodGet, "/metrics", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	require.True(t, strings.Contains(body, `zebra_pricings_total{model="black-scholes",result="ok"} 1`), body)
	require.Contains(t, body, `zebra_http_requests_total{method="GET",path="/health",status="200"} 1`)
}
