package api

import (
	"context"
	"net/http"
	"time"
)

type Customer struct {
	ID          string     `json:"id"`
	FarmerID    string     `json:"farmer_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	Province    string     `json:"province,omitempty"`
	City        string     `json:"city,omitempty"`
	District    string     `json:"district,omitempty"`
	Address     string     `json:"address,omitempty"`
	Level       string     `json:"level"`
	TotalOrders int        `json:"total_orders"`
	TotalAmount float64    `json:"total_amount"`
	Tags        []string   `json:"tags"`
	Remark      string     `json:"remark,omitempty"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type CustomerCreate struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Address  string `json:"address,omitempty"`
	Remark   string `json:"remark,omitempty"`
}

type CustomerUpdate struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Province *string `json:"province,omitempty"`
	City     *string `json:"city,omitempty"`
	District *string `json:"district,omitempty"`
	Address  *string `json:"address,omitempty"`
	Level    *string `json:"level,omitempty"`
	Remark   *string `json:"remark,omitempty"`
}

type CustomerStatistics struct {
	TotalCustomers        int     `json:"total_customers"`
	NewCustomersThisMonth int     `json:"new_customers_this_month"`
	ActiveCustomers       int     `json:"active_customers"`
	VIPCustomers          int     `json:"vip_customers"`
	TotalCustomerValue    float64 `json:"total_customer_value"`
	AverageCustomerValue  float64 `json:"average_customer_value"`
}

func (c *Client) ListCustomers(ctx context.Context, params ListParams) (*Page[Customer], error) {
	var out Page[Customer]
	if err := c.get(ctx, "/customers", params.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var out Customer
	if err := c.get(ctx, pathf("/customers/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CustomerStatistics(ctx context.Context) (*CustomerStatistics, error) {
	var out CustomerStatistics
	if err := c.get(ctx, "/customers/statistics/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerCreate) (*Customer, error) {
	var out Customer
	if err := c.send(ctx, http.MethodPost, "/customers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in CustomerUpdate) (*Customer, error) {
	var out Customer
	if err := c.send(ctx, http.MethodPut, pathf("/customers/%s", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, pathf("/customers/%s", id), nil, nil, nil)
}

func (c *Client) ExportCustomersPDF(ctx context.Context, filters map[string]string) (*Download, error) {
	return c.download(ctx, "/customers/export/pdf", ListParams{Filters: filters}.Values())
}
