package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_sync/internal/feature/indexcatalog/domain/entity"
	"stock_sync/internal/feature/indexcatalog/transport/http/dto"
	"stock_sync/internal/feature/indexcatalog/usecase"
)

// CatalogUsecase is the part of the catalog the HTTP API reads.
type CatalogUsecase interface {
	Names(ctx context.Context) []string
	Resolve(ctx context.Context, name string) []string
	Constituents(ctx context.Context, name string) ([]entity.Constituent, error)
}

// IndexHandler serves index membership.
type IndexHandler struct {
	uc CatalogUsecase
}

func NewIndexHandler(uc CatalogUsecase) *IndexHandler {
	return &IndexHandler{uc: uc}
}

// List returns every known index with its constituent count.
func (h *IndexHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	names := h.uc.Names(ctx)
	out := make([]dto.IndexItem, 0, len(names))
	for _, n := range names {
		out = append(out, dto.IndexItem{Name: n, Count: len(h.uc.Resolve(ctx, n))})
	}
	c.JSON(http.StatusOK, out)
}

// Get returns the constituents of one index. Unknown indices answer 404.
func (h *IndexHandler) Get(c *gin.Context) {
	name := c.Param("name")
	list, err := h.uc.Constituents(c.Request.Context(), name)
	if errors.Is(err, usecase.ErrIndexNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "index not found: " + name})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]dto.ConstituentItem, 0, len(list))
	for _, it := range list {
		items = append(items, dto.ConstituentItem{Symbol: it.Symbol, Name: it.Name})
	}
	c.JSON(http.StatusOK, dto.IndexDetail{Name: entity.CanonicalIndexName(name), Constituents: items})
}
