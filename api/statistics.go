package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// Statistics payloads feed charts and are returned as raw JSON.

func (c *Client) OverviewStats(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/overview", query)
}

func (c *Client) SalesTrend(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/sales-trend", query)
}

func (c *Client) ProductRanking(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/product-ranking", query)
}

func (c *Client) OrderSourceDistribution(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/order-source", query)
}

func (c *Client) CustomerStats(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/customers", query)
}

func (c *Client) AICostStats(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/ai-cost", query)
}

func (c *Client) AICostDetails(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/ai-cost/details", query)
}

func (c *Client) ModelUsageDistribution(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/model-usage", query)
}

func (c *Client) ExportStatistics(ctx context.Context, reportType string, query url.Values) (*Download, error) {
	return c.download(ctx, pathf("/statistics/export/%s", reportType), query)
}

func (c *Client) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/dashboard", nil)
}

func (c *Client) Realtime(ctx context.Context) (json.RawMessage, error) {
	return c.rawGet(ctx, "/statistics/realtime", nil)
}
