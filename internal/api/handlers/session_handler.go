package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/repository"
	"github.com/stockcast-app/stockcast/internal/service"
)

// SessionHandler manages the per-session catalog and sales history.
type SessionHandler struct {
	store *repository.SessionStore
}

func NewSessionHandler(store *repository.SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// UploadProducts replaces the session catalog.
func (h *SessionHandler) UploadProducts(c *gin.Context) {
	var products []domain.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload", "details": err.Error()})
		return
	}

	for _, p := range products {
		if p.UnitCost < 0 || p.UnitPrice < 0 || p.CurrentStock < 0 || p.MaxStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product numeric fields must be >= 0", "product_id": p.ID})
			return
		}
	}

	if err := h.store.UpsertProducts(sessionID(c), products); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": len(products)})
}

// UploadSales appends sales records to the session history.
func (h *SessionHandler) UploadSales(c *gin.Context) {
	var records []domain.SalesRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sales payload", "details": err.Error()})
		return
	}

	// malformed records degrade per field: negative quantities are
	// dropped, not fatal
	kept := records[:0]
	skipped := 0
	for _, rec := range records {
		if rec.Quantity < 0 || rec.Date.IsZero() {
			skipped++
			continue
		}
		kept = append(kept, rec)
	}

	h.store.AppendSales(sessionID(c), kept)
	c.JSON(http.StatusOK, gin.H{"accepted": len(kept), "skipped": skipped})
}

// DeleteSession drops the session state.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.store.Delete(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func sessionID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback))); err == nil && v > 0 {
		return v
	}
	return fallback
}

// InventoryHandler serves the derived inventory report.
type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: svc}
}

func (h *InventoryHandler) GetReport(c *gin.Context) {
	report, err := h.service.BuildReport(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to build report", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
