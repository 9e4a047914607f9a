package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// Traceability documents have no fixed schema; they are passed through as
// raw JSON.

func (c *Client) ListBatches(ctx context.Context, params ListParams) (json.RawMessage, error) {
	return c.rawGet(ctx, "/traceability/batches", params.Values())
}

func (c *Client) GetBatch(ctx context.Context, id string) (json.RawMessage, error) {
	return c.rawGet(ctx, pathf("/traceability/batches/%s", id), nil)
}

func (c *Client) CreateBatch(ctx context.Context, in any) (json.RawMessage, error) {
	return c.rawSend(ctx, http.MethodPost, "/traceability/batches", in)
}

func (c *Client) UpdateBatch(ctx context.Context, id string, in any) (json.RawMessage, error) {
	return c.rawSend(ctx, http.MethodPut, pathf("/traceability/batches/%s", id), in)
}

func (c *Client) DeleteBatch(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, pathf("/traceability/batches/%s", id), nil, nil, nil)
}

func (c *Client) AddProductionRecord(ctx context.Context, batchID string, in any) (json.RawMessage, error) {
	return c.rawSend(ctx, http.MethodPost, pathf("/traceability/batches/%s/records", batchID), in)
}

func (c *Client) ProductionRecords(ctx context.Context, batchID string) (json.RawMessage, error) {
	return c.rawGet(ctx, pathf("/traceability/batches/%s/records", batchID), nil)
}

func (c *Client) UploadQualityReport(ctx context.Context, batchID, filename string, r io.Reader) (json.RawMessage, error) {
	var out json.RawMessage
	path := pathf("/traceability/batches/%s/quality-report", batchID)
	if err := c.upload(ctx, path, "file", []File{{Name: filename, Reader: r}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BatchQRCode(ctx context.Context, batchID string) (json.RawMessage, error) {
	return c.rawGet(ctx, pathf("/traceability/batches/%s/qrcode", batchID), nil)
}

func (c *Client) TraceabilityStats(ctx context.Context) (json.RawMessage, error) {
	return c.rawGet(ctx, "/traceability/stats", nil)
}

func (c *Client) Orchards(ctx context.Context) (json.RawMessage, error) {
	return c.rawGet(ctx, "/traceability/orchards", nil)
}

func (c *Client) UpdateOrchard(ctx context.Context, id string, in any) (json.RawMessage, error) {
	return c.rawSend(ctx, http.MethodPut, pathf("/traceability/orchards/%s", id), in)
}

func (c *Client) ScanStats(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.rawGet(ctx, "/traceability/scan-stats", query)
}

func (c *Client) rawGet(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) rawSend(ctx context.Context, method, path string, in any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.send(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}
