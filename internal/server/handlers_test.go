package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LouYuanbo1/listingcrawler/internal/contextkeys"
	"github.com/LouYuanbo1/listingcrawler/internal/domain/model"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
	"github.com/LouYuanbo1/listingcrawler/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	ScrapeRangeFn   func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error)
	CheckMaxPagesFn func(ctx context.Context, params *param.MaxPages) int
}

func (f *fakeScraper) ScrapeRange(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
	return f.ScrapeRangeFn(ctx, params)
}

func (f *fakeScraper) CheckMaxPages(ctx context.Context, params *param.MaxPages) int {
	return f.CheckMaxPagesFn(ctx, params)
}

func newTestRouter(scraper *fakeScraper) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewScrapeHandlers(scraper), logger)
}

func do(t *testing.T, h http.Handler, method, target string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestHandleScrape(t *testing.T) {
	sample := &model.BatchResult{
		Properties: []model.Property{{Title: "Casa", Price: "Consultar", URL: "https://www.remax.com.ar/listings/casa"}},
		Pages: []model.PageOutcome{
			{Page: 0, Status: model.PageOK, Count: 1},
			{Page: 1, Status: model.PageFailed, Error: "navigation failed", Err: types.ErrNavigation},
		},
	}

	t.Run("scrapes the requested range", func(t *testing.T) {
		var got *param.ScrapeRange
		scraper := &fakeScraper{ScrapeRangeFn: func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
			got = params
			return sample, nil
		}}

		rec, body := do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?startPage=2&endPage=4&operationId=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, &param.ScrapeRange{StartPage: 2, EndPage: 4, OperationID: 2}, got)
		assert.Equal(t, true, body["success"])

		data := body["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "Casa", data[0].(map[string]any)["title"])

		pages := body["pages"].([]any)
		require.Len(t, pages, 2)
		assert.Equal(t, "failed", pages[1].(map[string]any)["status"])
		assert.Equal(t, "navigation failed", pages[1].(map[string]any)["error"])
		_, hasError := pages[0].(map[string]any)["error"]
		assert.False(t, hasError)
	})

	t.Run("defaults like parseInt", func(t *testing.T) {
		tests := []struct {
			query string
			want  param.ScrapeRange
		}{
			{"endPage=3", param.ScrapeRange{StartPage: 0, EndPage: 3, OperationID: 1}},
			{"endPage=3abc&startPage=x&operationId=0", param.ScrapeRange{StartPage: 0, EndPage: 3, OperationID: 1}},
			{"endPage=%203.9&startPage=1.5&operationId=2px", param.ScrapeRange{StartPage: 1, EndPage: 3, OperationID: 2}},
			{"endPage=-1&startPage=-2", param.ScrapeRange{StartPage: -2, EndPage: -1, OperationID: 1}},
		}
		for _, tt := range tests {
			var got param.ScrapeRange
			scraper := &fakeScraper{ScrapeRangeFn: func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
				got = *params
				return &model.BatchResult{Properties: []model.Property{}, Pages: []model.PageOutcome{}}, nil
			}}
			rec, _ := do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?"+tt.query, nil)
			assert.Equal(t, http.StatusOK, rec.Code, tt.query)
			assert.Equal(t, tt.want, got, tt.query)
		}
	})

	t.Run("endPage is required", func(t *testing.T) {
		scraper := &fakeScraper{ScrapeRangeFn: func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
			t.Fatal("scraper must not be called")
			return nil, nil
		}}

		rec, body := do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?startPage=1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]any{"success": false, "error": "El parámetro endPage es requerido."}, body)

		rec, body = do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?endPage=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "El parámetro endPage debe ser un número entero.", body["error"])

		rec, _ = do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?endPage=", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fatal error is a 500 envelope", func(t *testing.T) {
		scraper := &fakeScraper{ScrapeRangeFn: func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
			return nil, errors.Join(types.ErrLaunch, errors.New("chrome not found"))
		}}

		rec, body := do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?endPage=1", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "chrome not found")
	})

	t.Run("check max pages", func(t *testing.T) {
		var got *param.MaxPages
		scraper := &fakeScraper{CheckMaxPagesFn: func(ctx context.Context, params *param.MaxPages) int {
			got = params
			return 775
		}}

		rec, body := do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?mode=checkMaxPages&operationId=2", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"success": true, "maxPages": float64(775)}, body)
		assert.Equal(t, &param.MaxPages{OperationID: 2}, got)
	})

	t.Run("check max pages ignores endPage", func(t *testing.T) {
		scraper := &fakeScraper{CheckMaxPagesFn: func(ctx context.Context, params *param.MaxPages) int { return 12 }}

		rec, body := do(t, newTestRouter(scraper), http.MethodGet, "/api/scrape?mode=checkMaxPages", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(12), body["maxPages"])
	})

	t.Run("request context is detached and carries the logger", func(t *testing.T) {
		var scrapeCtx context.Context
		scraper := &fakeScraper{ScrapeRangeFn: func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
			scrapeCtx = ctx
			return sample, nil
		}}

		reqCtx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/scrape?endPage=0", nil).WithContext(reqCtx)
		req.Header.Set("X-Trace-ID", "trace-42")
		rec := httptest.NewRecorder()
		newTestRouter(scraper).ServeHTTP(rec, req)
		cancel()

		require.NotNil(t, scrapeCtx)
		assert.NoError(t, scrapeCtx.Err())
		assert.Equal(t, "trace-42", contextkeys.TraceIDFromContext(scrapeCtx))
		_, ok := contextkeys.LookupLogger(scrapeCtx)
		assert.True(t, ok)
		assert.Equal(t, "trace-42", rec.Header().Get("X-Trace-ID"))
	})
}

func TestRouter(t *testing.T) {
	router := newTestRouter(&fakeScraper{})

	t.Run("health", func(t *testing.T) {
		rec, body := do(t, router, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"status": "ok"}, body)
	})

	t.Run("generates trace id", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/healthz", nil)
		assert.Len(t, rec.Header().Get("X-Trace-ID"), 36)
	})

	t.Run("cors headers", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/healthz", http.Header{"Origin": {"http://example.com"}})
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no cors headers without origin", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/scrape", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Less(t, rec.Code, 300)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
	})

	t.Run("panics are recovered", func(t *testing.T) {
		scraper := &fakeScraper{ScrapeRangeFn: func(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
			panic("boom")
		}}
		req := httptest.NewRequest(http.MethodGet, "/api/scrape?endPage=1", nil)
		rec := httptest.NewRecorder()
		newTestRouter(scraper).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"  7", 7, true},
		{"+3", 3, true},
		{"-3", -3, true},
		{"12abc", 12, true},
		{"3.9", 3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		n, ok := parseLeadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, n, tt.in)
	}
}
