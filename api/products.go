package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Product struct {
	ID                  string          `json:"id"`
	FarmerID            string          `json:"farmer_id"`
	Name                string          `json:"name"`
	SKUCode             string          `json:"sku_code"`
	Category            string          `json:"category"`
	Specs               json.RawMessage `json:"specs,omitempty"`
	Price               float64         `json:"price"`
	OriginalPrice       *float64        `json:"original_price,omitempty"`
	Stock               int             `json:"stock"`
	StockAlertThreshold int             `json:"stock_alert_threshold"`
	TargetScene         string          `json:"target_scene,omitempty"`
	PackagingType       string          `json:"packaging_type,omitempty"`
	SellingPoints       []string        `json:"selling_points,omitempty"`
	Images              []string        `json:"images,omitempty"`
	VideoURL            string          `json:"video_url,omitempty"`
	OriginInfo          json.RawMessage `json:"origin_info,omitempty"`
	Description         string          `json:"description,omitempty"`
	IsActive            bool            `json:"is_active"`
	IsFeatured          bool            `json:"is_featured"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

type ProductCreate struct {
	Name                string          `json:"name"`
	SKUCode             string          `json:"sku_code"`
	Category            string          `json:"category"`
	Specs               json.RawMessage `json:"specs"`
	Price               float64         `json:"price"`
	OriginalPrice       *float64        `json:"original_price,omitempty"`
	Stock               int             `json:"stock"`
	StockAlertThreshold int             `json:"stock_alert_threshold,omitempty"`
	TargetScene         string          `json:"target_scene,omitempty"`
	PackagingType       string          `json:"packaging_type,omitempty"`
	SellingPoints       []string        `json:"selling_points,omitempty"`
	Images              []string        `json:"images,omitempty"`
	VideoURL            string          `json:"video_url,omitempty"`
	OriginInfo          json.RawMessage `json:"origin_info,omitempty"`
	Description         string          `json:"description,omitempty"`
}

type ProductUpdate struct {
	Name                *string   `json:"name,omitempty"`
	Price               *float64  `json:"price,omitempty"`
	OriginalPrice       *float64  `json:"original_price,omitempty"`
	Stock               *int      `json:"stock,omitempty"`
	StockAlertThreshold *int      `json:"stock_alert_threshold,omitempty"`
	TargetScene         *string   `json:"target_scene,omitempty"`
	SellingPoints       *[]string `json:"selling_points,omitempty"`
	Images              *[]string `json:"images,omitempty"`
	Description         *string   `json:"description,omitempty"`
	IsActive            *bool     `json:"is_active,omitempty"`
	IsFeatured          *bool     `json:"is_featured,omitempty"`
}

func (c *Client) ListProducts(ctx context.Context, params ListParams) (*Page[Product], error) {
	var out Page[Product]
	if err := c.get(ctx, "/products", params.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.get(ctx, pathf("/products/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductCreate) (*Product, error) {
	var out Product
	if err := c.send(ctx, http.MethodPost, "/products", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (*Product, error) {
	var out Product
	if err := c.send(ctx, http.MethodPut, pathf("/products/%s", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, pathf("/products/%s", id), nil, nil, nil)
}

// BatchUpdateProductStatus toggles is_active on every listed product.
func (c *Client) BatchUpdateProductStatus(ctx context.Context, ids []string, isActive bool) (json.RawMessage, error) {
	in := struct {
		IDs      []string `json:"ids"`
		IsActive bool     `json:"is_active"`
	}{IDs: ids, IsActive: isActive}

	var out json.RawMessage
	if err := c.send(ctx, http.MethodPost, "/products/batch-update", nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BatchDeleteProducts(ctx context.Context, ids []string) (json.RawMessage, error) {
	in := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	var out json.RawMessage
	if err := c.send(ctx, http.MethodPost, "/products/batch-delete", nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExportProductsPDF(ctx context.Context, filters map[string]string) (*Download, error) {
	return c.download(ctx, "/products/export/pdf", ListParams{Filters: filters}.Values())
}

// ImportProducts uploads a spreadsheet as the multipart member "file".
func (c *Client) ImportProducts(ctx context.Context, filename string, r io.Reader) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.upload(ctx, "/products/import", "file", []File{{Name: filename, Reader: r}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductCategories accepts both {"categories": [...]} and a bare list.
func (c *Client) ProductCategories(ctx context.Context) ([]string, error) {
	raw, err := c.rawGet(ctx, "/products/categories", nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode product categories: %w", err)
	}
	return wrapped.Categories, nil
}
