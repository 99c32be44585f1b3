package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/LouYuanbo1/listingcrawler/internal/contextkeys"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/logging"
	service "github.com/LouYuanbo1/listingcrawler/internal/service/scraper"
	"github.com/LouYuanbo1/listingcrawler/param"
)

const (
	modeCheckMaxPages = "checkMaxPages"

	errEndPageRequired = "El parámetro endPage es requerido."
	errEndPageInvalid  = "El parámetro endPage debe ser un número entero."
)

type ScrapeHandlers struct {
	scraper service.ScraperService
}

func NewScrapeHandlers(scraper service.ScraperService) *ScrapeHandlers {
	return &ScrapeHandlers{scraper: scraper}
}

// HandleScrape GET /api/scrape
//
//	?mode=checkMaxPages&operationId=1       查询总页数
//	?startPage=0&endPage=3&operationId=1     抓取页码范围
func (h *ScrapeHandlers) HandleScrape(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).With(slog.String("handler", "HandleScrape"))
	query := r.URL.Query()

	// 客户端断开不会中断正在进行的抓取
	ctx := context.WithoutCancel(r.Context())

	operationID := intOr(query.Get("operationId"), 1)

	if query.Get("mode") == modeCheckMaxPages {
		logger.Info("查询总页数", slog.Int("operation_id", operationID))
		maxPages := h.scraper.CheckMaxPages(ctx, &param.MaxPages{OperationID: operationID})
		RespondWithJSON(w, http.StatusOK, MaxPagesResponseDTO{Success: true, MaxPages: maxPages})
		return
	}

	if !query.Has("endPage") {
		WriteJSONError(w, http.StatusBadRequest, errEndPageRequired)
		return
	}
	endPage, ok := parseLeadingInt(query.Get("endPage"))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, errEndPageInvalid)
		return
	}
	startPage := intOr(query.Get("startPage"), 0)

	logger = logger.With(
		slog.Int("operation_id", operationID),
		slog.Int("start_page", startPage),
		slog.Int("end_page", endPage))
	logger.Info("开始抓取页码范围")

	result, err := h.scraper.ScrapeRange(ctx, &param.ScrapeRange{
		StartPage:   startPage,
		EndPage:     endPage,
		OperationID: operationID,
	})
	if err != nil {
		logger.Error("抓取失败", logging.Err(err))
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, ScrapeResponseDTO{
		Success: true,
		Data:    result.Properties,
		Pages:   result.Pages,
	})
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, HealthResponseDTO{Status: "ok"})
}
