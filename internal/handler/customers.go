package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weblarek/backend/internal/sanitize"
	"github.com/weblarek/backend/internal/service"
)

// customerUpdateRequest is the PATCH body; absent fields stay untouched.
// customerUpdateRequest 是PATCH请求体；缺失的字段保持不变。
type customerUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

func (h *Handler) listCustomers(c *gin.Context) {
	values := c.Request.URL.Query()
	if err := queryFirewall(values); err != nil {
		h.fail(c, err)
		return
	}
	customers, page, err := h.customers.List(c.Request.Context(), identity(c), customerListParams(values))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customers":  sanitize.CleanCustomers(customers),
		"pagination": page,
	})
}

func (h *Handler) getCustomer(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanCustomer(customer))
}

func (h *Handler) updateCustomer(c *gin.Context) {
	var req customerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), identity(c), c.Param("id"), service.CustomerUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanCustomer(customer))
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	customer, err := h.customers.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanCustomer(customer))
}
