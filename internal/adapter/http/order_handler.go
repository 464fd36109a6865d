package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/http/middleware"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

type OrderHandler struct {
	orders *usecase.Orders
}

func NewOrderHandler(orders *usecase.Orders) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderReq struct {
	Items           []usecase.CartItem     `json:"items" binding:"required"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	Notes           string                 `json:"notes"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	caller := middleware.CallerFrom(c)
	order, err := h.orders.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		Username:        caller.Username,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   method,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	orders, err := h.orders.GetUserOrders(c.Request.Context(), caller.Username, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrderByID(c.Request.Context(), c.Param("id"), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	order, err := h.orders.GetOrderByOrderNumber(c.Request.Context(), c.Param("orderNumber"), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.orders.CancelOrder(c.Request.Context(), c.Param("id"), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Track is unauthenticated: tracking numbers are shared with carriers
// and reveal only the shipment projection, not the full order.
func (h *OrderHandler) Track(c *gin.Context) {
	view, err := h.orders.TrackOrder(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context(), pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListByStatus(c *gin.Context) {
	status, err := domain.ParseStatus(c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.orders.GetOrdersByStatus(c.Request.Context(), status, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Recent(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	orders, err := h.orders.GetRecentOrders(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Stats(c *gin.Context) {
	total, err := h.orders.OrderCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalOrders": total})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) SetTracking(c *gin.Context) {
	var req struct {
		TrackingNumber string `json:"trackingNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	order, err := h.orders.AddTrackingNumber(c.Request.Context(), c.Param("id"), req.TrackingNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func pageFrom(c *gin.Context) usecase.Page {
	number, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return usecase.Page{Number: number, Size: size}
}
