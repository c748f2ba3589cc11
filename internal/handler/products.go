package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weblarek/backend/internal/sanitize"
)

func (h *Handler) listProducts(c *gin.Context) {
	values := c.Request.URL.Query()
	if err := queryFirewall(values); err != nil {
		h.fail(c, err)
		return
	}
	products, page, err := h.products.List(c.Request.Context(), pageParam(values, "page"), pageParam(values, "limit"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      sanitize.CleanProducts(products),
		"pagination": page,
	})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanProduct(product))
}
