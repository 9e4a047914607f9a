package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	COST_TYPE_MATERIAL  = "material"
	COST_TYPE_LABOR     = "labor"
	COST_TYPE_LOGISTICS = "logistics"
	COST_TYPE_PACKAGING = "packaging"
	COST_TYPE_OTHER     = "other"

	DEFAULT_COST_PERIOD = "month"
)

type CostOverview struct {
	TotalCost       float64 `json:"total_cost"`
	TotalTrend      float64 `json:"total_trend"`
	MaterialCost    float64 `json:"material_cost"`
	MaterialPercent float64 `json:"material_percent"`
	LaborCost       float64 `json:"labor_cost"`
	LaborPercent    float64 `json:"labor_percent"`
	OtherCost       float64 `json:"other_cost"`
	OtherPercent    float64 `json:"other_percent"`
}

type CostTrendPoint struct {
	Date      string  `json:"date"`
	Material  float64 `json:"material"`
	Labor     float64 `json:"labor"`
	Logistics float64 `json:"logistics"`
	Packaging float64 `json:"packaging"`
	Other     float64 `json:"other"`
	Total     float64 `json:"total"`
}

type CostTrend struct {
	Period string           `json:"period"`
	Data   []CostTrendPoint `json:"data"`
}

// CostRecord uses "type" on the wire for the cost category.
type CostRecord struct {
	ID        int       `json:"id,omitempty"`
	FarmerID  string    `json:"farmer_id,omitempty"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Amount    float64   `json:"amount"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// CostRecordPage is the cost list envelope, which differs from Page.
type CostRecordPage struct {
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Size    int          `json:"size"`
	Records []CostRecord `json:"records"`
}

func (c *Client) CostOverview(ctx context.Context) (*CostOverview, error) {
	var out CostOverview
	if err := c.get(ctx, "/costs/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CostTrend wraps GET /costs/trend; an empty period means month.
func (c *Client) CostTrend(ctx context.Context, period string) (*CostTrend, error) {
	if period == "" {
		period = DEFAULT_COST_PERIOD
	}
	query := url.Values{}
	query.Set("period", period)

	var out CostTrend
	if err := c.get(ctx, "/costs/trend", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCostRecords(ctx context.Context, params ListParams) (*CostRecordPage, error) {
	var out CostRecordPage
	if err := c.get(ctx, "/costs/records", params.values("size"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCostRecord(ctx context.Context, in CostRecord) (*CostRecord, error) {
	var out CostRecord
	if err := c.send(ctx, http.MethodPost, "/costs/records", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCostRecord(ctx context.Context, id int, in CostRecord) (*CostRecord, error) {
	var out CostRecord
	if err := c.send(ctx, http.MethodPut, pathf("/costs/records/%s", strconv.Itoa(id)), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCostRecord(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, pathf("/costs/records/%s", strconv.Itoa(id)), nil, nil, nil)
}

func (c *Client) ExportCostRecords(ctx context.Context, filters map[string]string) (*Download, error) {
	return c.download(ctx, "/costs/records/export", ListParams{Filters: filters}.Values())
}
