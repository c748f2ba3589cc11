package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weblarek/backend/internal/sanitize"
	"github.com/weblarek/backend/internal/service"
)

// orderCreateRequest is the POST body of an order submission.
// orderCreateRequest 是订单提交的POST请求体。
type orderCreateRequest struct {
	Items   []string `json:"items" binding:"required,min=1,dive,objectid"`
	Payment string   `json:"payment" binding:"required,oneof=card online"`
	Email   string   `json:"email" binding:"required,email"`
	Phone   string   `json:"phone" binding:"required"`
	Address string   `json:"address" binding:"required"`
	Comment string   `json:"comment"`
	Total   float64  `json:"total" binding:"required,gt=0"`
}

// orderStatusRequest is the PATCH body of a status transition.
// orderStatusRequest 是状态推进的PATCH请求体。
type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) listOrders(c *gin.Context) {
	values := c.Request.URL.Query()
	if err := queryFirewall(values); err != nil {
		h.fail(c, err)
		return
	}
	orders, page, err := h.orders.List(c.Request.Context(), identity(c), orderListParams(values))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     sanitize.CleanOrders(orders),
		"pagination": page,
	})
}

func (h *Handler) listMyOrders(c *gin.Context) {
	values := c.Request.URL.Query()
	if err := queryFirewall(values); err != nil {
		h.fail(c, err)
		return
	}
	orders, page, err := h.orders.ListMine(c.Request.Context(), identity(c), orderListParams(values))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     sanitize.CleanOrders(orders),
		"pagination": page,
	})
}

func (h *Handler) getOrder(c *gin.Context) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil {
		h.badRequest(c, "malformed order number")
		return
	}
	order, err := h.orders.GetByNumber(c.Request.Context(), identity(c), number)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanOrder(order))
}

func (h *Handler) createOrder(c *gin.Context) {
	var req orderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	order, err := h.orders.Create(c.Request.Context(), identity(c), service.OrderCreateInput{
		Items:   req.Items,
		Payment: req.Payment,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Comment: req.Comment,
		Total:   req.Total,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sanitize.CleanOrder(order))
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil {
		h.badRequest(c, "malformed order number")
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), number, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanOrder(order))
}

func (h *Handler) deleteOrder(c *gin.Context) {
	order, err := h.orders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize.CleanOrder(order))
}
