package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmeradmin/retry"
)

func newTestServer(t *testing.T, mux *http.ServeMux, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(http.StripPrefix("/api/v1", mux))
	t.Cleanup(srv.Close)

	opts = append([]Option{
		WithHTTPClient(srv.Client()),
		WithRetry(2, retry.Linear{Step: time.Millisecond}),
	}, opts...)
	return New(srv.URL+"/api/v1/", opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginSendsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /farmers/login", func(w http.ResponseWriter, r *http.Request) {
		var in LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "13800138000", in.Phone)
		assert.Equal(t, "demo123456", in.Password)
		assert.Equal(t, CONTENT_TYPE_JSON, r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get(HEADER_AUTHORIZATION))

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "jwt-token",
			"token_type":   "bearer",
			"farmer": map[string]any{
				"id":              "farmer_puzhou_001",
				"name":            "被子垣果园",
				"tier":            "basic",
				"services_count":  3,
				"api_calls_today": 45,
				"created_at":      "2024-01-01T00:00:00Z",
				"updated_at":      "2024-01-15T12:30:00Z",
			},
		})
	})
	c := newTestServer(t, mux)

	out, err := c.Login(context.Background(), LoginRequest{Phone: "13800138000", Password: "demo123456"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, "basic", out.Farmer.Tier)
	assert.Equal(t, 3, out.Farmer.ServicesCount)
	assert.Equal(t, 45, out.Farmer.APICallsToday)
}

func TestRequestHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /farmers/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get(HEADER_AUTHORIZATION))
		_, err := uuid.Parse(r.Header.Get(HEADER_REQUEST_ID))
		assert.NoError(t, err)
		writeJSON(w, http.StatusOK, map[string]any{"id": "f1", "name": "orchard"})
	})
	c := newTestServer(t, mux, WithTokenSource(StaticToken("abc")))

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "f1", me.ID)
}

func TestIdempotentRequestsRetry(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	ids := map[string]bool{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /farmers/quota", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		ids[r.Header.Get(HEADER_REQUEST_ID)] = true
		mu.Unlock()

		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tier": "free", "max_services": 1})
	})
	c := newTestServer(t, mux)

	quota, err := c.Quota(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "free", quota.Tier)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
	assert.Len(t, ids, 1, "retries reuse the request id")
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/statistics/summary", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadGateway, map[string]any{"detail": "upstream down"})
	})
	c := newTestServer(t, mux)

	_, err := c.OrderStatistics(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Detail)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNonIdempotentRequestsDoNotRetry(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /services/generate", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestServer(t, mux)

	_, err := c.GenerateService(context.Background(), ServiceGenerationRequest{Requirement: "an assistant for pear storage questions", ProductCategory: "玉露香梨"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "string detail", status: http.StatusBadRequest, body: `{"detail":"手机号或密码错误"}`, want: "手机号或密码错误"},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","phone"],"msg":"field required"},{"loc":["query","page"],"msg":"must be positive"}]}`, want: "body.phone: field required; query.page: must be positive"},
		{name: "message member", status: http.StatusConflict, body: `{"message":"duplicate sku"}`, want: "duplicate sku"},
		{name: "plain text", status: http.StatusInternalServerError, body: "boom\n", want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			c := newTestServer(t, mux)

			_, err := c.CreateProduct(context.Background(), ProductCreate{Name: "pear"})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Detail)
			assert.Equal(t, http.MethodPost, apiErr.Method)
			assert.Equal(t, "/api/v1/products", apiErr.Path)
		})
	}
}

func TestUnauthorizedHook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /farmers/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
	})

	fired := 0
	c := newTestServer(t, mux, WithUnauthorizedHandler(func() { fired++ }))

	_, err := c.Me(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, 1, fired)
}

func TestOrderQueryParameters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders/{id}/ship", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "o 1", r.PathValue("id"))
		assert.Equal(t, "SF", r.URL.Query().Get("shipping_method"))
		assert.Equal(t, "SF123", r.URL.Query().Get("tracking_number"))
		writeJSON(w, http.StatusOK, map[string]any{"id": "o 1", "status": ORDER_STATUS_SHIPPED})
	})
	mux.HandleFunc("POST /orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "out of stock", r.URL.Query().Get("reason"))
		writeJSON(w, http.StatusOK, map[string]any{"id": r.PathValue("id"), "status": ORDER_STATUS_CANCELLED})
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("page_size"))
		assert.Equal(t, "paid", q.Get("status_filter"))
		assert.False(t, q.Has("customer"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{map[string]any{"id": "o2"}}, "total": 21, "page": 2, "page_size": 20, "has_more": false})
	})
	c := newTestServer(t, mux)
	ctx := context.Background()

	shipped, err := c.ShipOrder(ctx, "o 1", Shipment{ShippingMethod: "SF", TrackingNumber: "SF123"})
	require.NoError(t, err)
	assert.Equal(t, ORDER_STATUS_SHIPPED, shipped.Status)

	cancelled, err := c.CancelOrder(ctx, "o2", "out of stock")
	require.NoError(t, err)
	assert.Equal(t, ORDER_STATUS_CANCELLED, cancelled.Status)

	page, err := c.ListOrders(ctx, ListParams{Page: 2, PageSize: 20, Filters: map[string]string{"status_filter": "paid", "customer": ""}})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "o2", page.Items[0].ID)
}

func TestCostRecordsUseSizeParameter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /costs/records", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("size"))
		assert.False(t, r.URL.Query().Has("page_size"))
		writeJSON(w, http.StatusOK, map[string]any{
			"total": 1, "page": 1, "size": 50,
			"records": []any{map[string]any{"id": 7, "date": "2024-09-01", "type": COST_TYPE_LABOR, "category": "picking", "amount": 300}},
		})
	})
	mux.HandleFunc("GET /costs/trend", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"period": r.URL.Query().Get("period"), "data": []any{}})
	})
	c := newTestServer(t, mux)

	page, err := c.ListCostRecords(context.Background(), ListParams{PageSize: 50})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, COST_TYPE_LABOR, page.Records[0].Type)
	assert.Equal(t, 7, page.Records[0].ID)

	trend, err := c.CostTrend(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_COST_PERIOD, trend.Period)
}

func TestDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /statistics/export/{type}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="sales_report.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4 "+r.PathValue("type"))
	})
	c := newTestServer(t, mux)

	d, err := c.ExportStatistics(context.Background(), "sales", nil)
	require.NoError(t, err)
	assert.Equal(t, "sales_report.pdf", d.Filename)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "%PDF-1.4 sales", string(d.Data))
}

func TestUploadImages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/images/batch", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		files := r.MultipartForm.File["files"]
		assert.Len(t, files, 2)

		success := make([]map[string]any, 0, len(files))
		for _, fh := range files {
			success = append(success, map[string]any{"url": "/uploads/images/" + fh.Filename, "filename": fh.Filename, "size": fh.Size})
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": success, "errors": []any{}, "total": 2, "success_count": 2, "error_count": 0})
	})
	c := newTestServer(t, mux)

	out, err := c.UploadImages(context.Background(), []File{
		{Name: "a.jpg", Reader: strings.NewReader("aaa")},
		{Name: "b.jpg", Reader: strings.NewReader("bbbb")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.SuccessCount)
	assert.Equal(t, "/uploads/images/b.jpg", out.Success[1].URL)
	assert.Equal(t, int64(4), out.Success[1].Size)
}

func TestProductCategories(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrapped", body: `{"categories":["玉露香梨","苹果"]}`},
		{name: "bare list", body: `["玉露香梨","苹果"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			c := newTestServer(t, mux)

			categories, err := c.ProductCategories(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"玉露香梨", "苹果"}, categories)
		})
	}
}

func TestEmptyBodyIsNotAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /farmers/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /upload/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uploads/images/a.jpg", r.URL.Query().Get("file_path"))
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})
	c := newTestServer(t, mux)

	assert.NoError(t, c.Logout(context.Background()))
	assert.NoError(t, c.DeleteFile(context.Background(), "/uploads/images/a.jpg"))
}

func TestContextCancellation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /statistics/dashboard", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestServer(t, mux, WithRetry(5, retry.Linear{Step: time.Hour}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Dashboard(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestServiceStatusTerminal(t *testing.T) {
	for status, want := range map[string]bool{
		SERVICE_STATUS_GENERATING: false,
		SERVICE_STATUS_TESTING:    false,
		SERVICE_STATUS_READY:      true,
		SERVICE_STATUS_DEPLOYED:   true,
		SERVICE_STATUS_FAILED:     true,
	} {
		s := ServiceStatus{Status: status}
		assert.Equal(t, want, s.Terminal(), status)
	}
}
