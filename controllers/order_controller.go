package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/A111221027/0806/config"
	"github.com/A111221027/0806/middleware"
	"github.com/A111221027/0806/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest is one line of the create order request body
type CreateOrderItemRequest struct {
	ItemName      *string          `json:"item_name"`
	Quantity      *LooseInt        `json:"quantity"`
	CustomOptions *string          `json:"custom_options"`
	Price         *decimal.Decimal `json:"price"`
}

// CreateOrderRequest represents the request body for creating an order.
// Fields are not validated here; the database constraints are the only check.
// Table numbers and quantities accept JSON numbers and numeric strings alike.
type CreateOrderRequest struct {
	Items       []CreateOrderItemRequest `json:"items"`
	TotalPrice  *decimal.Decimal         `json:"total_price"`
	TableNumber LooseString              `json:"table_number"`
}

// OrderController serves the /api/orders routes
type OrderController struct {
	orders      services.OrderService
	hideDetails bool
}

// NewOrderController creates an order controller. In production the
// underlying error text is replaced by the error code in responses.
func NewOrderController(orders services.OrderService, cfg *config.Config) *OrderController {
	return &OrderController{
		orders:      orders,
		hideDetails: cfg != nil && cfg.IsProduction(),
	}
}

// CreateOrder handles POST /api/orders - stores an order and its items
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		oc.respondError(c, "failed to submit order",
			services.NewOrderError(services.CodeSubmission, "failed to read order payload", err))
		return
	}

	log.Printf("[%s] Received order: %d items, table %q", middleware.GetRequestID(c), len(req.Items), req.TableNumber)

	orderID, err := oc.orders.Submit(c.Request.Context(), req.toInput())
	if err != nil {
		oc.respondError(c, "failed to submit order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "order succeeded",
		"order_id": orderID,
	})
}

// ListOrders handles GET /api/orders - lists orders, newest first
func (oc *OrderController) ListOrders(c *gin.Context) {
	summaries, err := oc.orders.List(c.Request.Context())
	if err != nil {
		oc.respondError(c, "failed to load orders", err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetOrder handles GET /api/orders/:id - returns one order with its items
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		oc.respondError(c, "order not found",
			services.NewOrderError(services.CodeNotFound, "invalid order id", err))
		return
	}

	order, err := oc.orders.Get(c.Request.Context(), uint(id))
	if err != nil {
		oc.respondError(c, "failed to load order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// respondError logs the full error chain and writes a JSON error body without internals
func (oc *OrderController) respondError(c *gin.Context, message string, err error) {
	log.Printf("[%s] %s: %+v", middleware.GetRequestID(c), message, err)

	status := http.StatusInternalServerError
	detail := "internal error"
	if orderErr, ok := services.AsOrderError(err); ok {
		if orderErr.Code == services.CodeNotFound {
			status = http.StatusNotFound
		}
		detail = orderErr.Detail()
		if oc.hideDetails {
			detail = orderErr.Code
		}
	}

	c.JSON(status, gin.H{
		"message": message,
		"error":   detail,
	})
}

func (r CreateOrderRequest) toInput() services.SubmitOrderInput {
	items := make([]services.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, services.ItemInput{
			ItemName:      it.ItemName,
			Quantity:      it.Quantity.IntPtr(),
			CustomOptions: it.CustomOptions,
			Price:         it.Price,
		})
	}
	return services.SubmitOrderInput{
		Items:       items,
		TotalPrice:  r.TotalPrice,
		TableNumber: string(r.TableNumber),
	}
}
