// sale.go - Sale records and the live sales feed

package handlers

import (
	"net/http"

	"store-manager/middleware"
	"store-manager/service"

	"github.com/gin-gonic/gin"
)

// CreateSale records the cart for the calling attendant.
func (h *Handler) CreateSale(c *gin.Context) {
	var input service.SaleInput
	if !h.bind(c, &input) {
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), middleware.Identity(c), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sale recorded", "sale": sale})
}

func (h *Handler) ListSales(c *gin.Context) {
	sales, err := h.sales.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sales retrieved", "sales": sales})
}

// GetSale returns a sale to owners and to the attendant who made it.
func (h *Handler) GetSale(c *gin.Context) {
	id, err := pathID(c, "Sale not found")
	if err != nil {
		h.respondError(c, err)
		return
	}
	sale, err := h.sales.Get(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale retrieved", "sale": sale})
}

// SalesFeed upgrades to a websocket that receives every recorded sale.
func (h *Handler) SalesFeed(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sales feed is disabled"})
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	h.log.Debug("feed subscriber connected", "email", middleware.Identity(c).Email)
	h.feed.Serve(conn)
}
