// Package handler exposes sync status and batch triggers over HTTP.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/transport/http/dto"
	"stock_sync/internal/feature/marketsync/usecase"
)

// StatusUsecase is the read side of the sync engine.
type StatusUsecase interface {
	SymbolStatus(ctx context.Context, symbol string) (usecase.SymbolStatus, error)
	Series(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error)
	RecentBatches(ctx context.Context, limit int) ([]entity.BatchResult, error)
}

// BatchUsecase triggers a batch run over one index.
type BatchUsecase interface {
	RunBatch(ctx context.Context, req usecase.BatchRequest) (entity.BatchResult, error)
}

type SyncHandler struct {
	status StatusUsecase
	batch  BatchUsecase
}

func NewSyncHandler(status StatusUsecase, batch BatchUsecase) *SyncHandler {
	return &SyncHandler{status: status, batch: batch}
}

// GetSymbolMetadata handles GET /symbols/:symbol/metadata.
func (h *SyncHandler) GetSymbolMetadata(c *gin.Context) {
	symbol := c.Param("symbol")
	st, err := h.status.SymbolStatus(c.Request.Context(), symbol)
	if errors.Is(err, usecase.ErrSymbolNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "symbol not found: " + symbol})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SymbolStatusResponse{
		Symbol:       st.Metadata.Symbol,
		Market:       string(st.Market),
		Partition:    st.Market.Partition(),
		LastUpdated:  st.Metadata.LastUpdated.UTC().Format(time.RFC3339),
		Status:       string(st.Metadata.Status),
		NeedsRefresh: st.NeedsRefresh,
	})
}

// GetSymbolSeries handles GET /symbols/:symbol/series.
func (h *SyncHandler) GetSymbolSeries(c *gin.Context) {
	symbol := c.Param("symbol")
	records, err := h.status.Series(c.Request.Context(), symbol)
	if errors.Is(err, usecase.ErrSymbolNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "symbol not found: " + symbol})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.SeriesPoint, 0, len(records))
	for _, r := range records {
		out = append(out, dto.SeriesPoint{
			Date:   r.Date.UTC().Format(entity.DateLayout),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	c.JSON(http.StatusOK, out)
}

// ListBatches handles GET /batches?limit=N.
func (h *SyncHandler) ListBatches(c *gin.Context) {
	// invalid values fall back to the usecase default
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	results, err := h.status.RecentBatches(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.BatchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toBatchResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// SyncIndex handles POST /indices/:name/sync. The run is synchronous and
// answers with its summary; a concurrent run yields 409.
func (h *SyncHandler) SyncIndex(c *gin.Context) {
	var req dto.SyncIndexRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
	}
	if v, ok := c.GetQuery("force"); ok {
		req.Force, _ = strconv.ParseBool(v)
	}

	result, err := h.batch.RunBatch(c.Request.Context(), usecase.BatchRequest{
		Index:    c.Param("name"),
		Force:    req.Force,
		Period:   req.Period,
		Interval: req.Interval,
	})
	switch {
	case errors.Is(err, usecase.ErrRunInProgress):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrUnknownIndex):
		c.JSON(http.StatusNotFound, toBatchResponse(result))
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusOK, toBatchResponse(result))
	}
}

func toBatchResponse(r entity.BatchResult) dto.BatchResultResponse {
	resp := dto.BatchResultResponse{
		ID:               r.ID,
		Index:            r.IndexName,
		Total:            r.Total,
		SuccessCount:     r.SuccessCount,
		FailedCount:      r.FailedCount,
		SucceededSymbols: r.SucceededSymbols,
		FailedSymbols:    r.FailedSymbols,
		Error:            r.Error,
	}
	if !r.Timestamp.IsZero() {
		resp.Timestamp = r.Timestamp.UTC().Format(time.RFC3339)
	}
	if resp.SucceededSymbols == nil {
		resp.SucceededSymbols = []string{}
	}
	if resp.FailedSymbols == nil {
		resp.FailedSymbols = []string{}
	}
	return resp
}
