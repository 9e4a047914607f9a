package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const (
	ORDER_STATUS_PENDING   = "pending"
	ORDER_STATUS_PAID      = "paid"
	ORDER_STATUS_SHIPPED   = "shipped"
	ORDER_STATUS_COMPLETED = "completed"
	ORDER_STATUS_CANCELLED = "cancelled"
	ORDER_STATUS_REFUNDED  = "refunded"
)

type OrderItem struct {
	SKUCode     string  `json:"sku_code"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID                   string          `json:"id"`
	FarmerID             string          `json:"farmer_id"`
	CustomerID           string          `json:"customer_id"`
	Items                []OrderItem     `json:"items"`
	Subtotal             float64         `json:"subtotal"`
	ShippingFee          float64         `json:"shipping_fee"`
	Discount             float64         `json:"discount"`
	TotalAmount          float64         `json:"total_amount"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentTransactionID string          `json:"payment_transaction_id,omitempty"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	ShippingAddress      json.RawMessage `json:"shipping_address,omitempty"`
	ShippingMethod       string          `json:"shipping_method,omitempty"`
	TrackingNumber       string          `json:"tracking_number,omitempty"`
	ShippedAt            *time.Time      `json:"shipped_at,omitempty"`
	Status               string          `json:"status"`
	CustomerNote         string          `json:"customer_note,omitempty"`
	FarmerNote           string          `json:"farmer_note,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            *time.Time      `json:"updated_at,omitempty"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

type OrderStatistics struct {
	TotalOrders       int     `json:"total_orders"`
	PendingOrders     int     `json:"pending_orders"`
	PaidOrders        int     `json:"paid_orders"`
	ShippedOrders     int     `json:"shipped_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	CancelledOrders   int     `json:"cancelled_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// Shipment is sent as query parameters, not as a body.
type Shipment struct {
	ShippingMethod string
	TrackingNumber string
}

type OrderStatusUpdate struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	FarmerNote     string `json:"farmer_note,omitempty"`
}

func (c *Client) ListOrders(ctx context.Context, params ListParams) (*Page[Order], error) {
	var out Page[Order]
	if err := c.get(ctx, "/orders", params.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.get(ctx, pathf("/orders/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderStatistics(ctx context.Context) (*OrderStatistics, error) {
	var out OrderStatistics
	if err := c.get(ctx, "/orders/statistics/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ShipOrder(ctx context.Context, id string, in Shipment) (*Order, error) {
	query := url.Values{}
	query.Set("shipping_method", in.ShippingMethod)
	query.Set("tracking_number", in.TrackingNumber)

	var out Order
	if err := c.send(ctx, http.MethodPost, pathf("/orders/%s/ship", id), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, id, reason string) (*Order, error) {
	query := url.Values{}
	query.Set("reason", reason)

	var out Order
	if err := c.send(ctx, http.MethodPost, pathf("/orders/%s/cancel", id), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, in OrderStatusUpdate) (*Order, error) {
	var out Order
	if err := c.send(ctx, http.MethodPut, pathf("/orders/%s/status", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExportOrdersPDF(ctx context.Context, filters map[string]string) (*Download, error) {
	return c.download(ctx, "/orders/export/pdf", ListParams{Filters: filters}.Values())
}
