// product.go - Product catalog endpoints

package handlers

import (
	"net/http"

	"store-manager/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateProduct(c *gin.Context) {
	var input service.ProductInput
	if !h.bind(c, &input) {
		return
	}
	p, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": p})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Products retrieved", "products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := pathID(c, "Product not found")
	if err != nil {
		h.respondError(c, err)
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product retrieved", "product": p})
}

// UpdateProduct applies a partial update; absent fields keep their values.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "Product not found")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input service.ProductUpdate
	if !h.bind(c, &input) {
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": p})
}
