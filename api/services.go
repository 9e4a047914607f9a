package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	SERVICE_STATUS_GENERATING = "generating"
	SERVICE_STATUS_TESTING    = "testing"
	SERVICE_STATUS_READY      = "ready"
	SERVICE_STATUS_DEPLOYED   = "deployed"
	SERVICE_STATUS_FAILED     = "failed"
)

type ServiceGenerationRequest struct {
	Requirement     string `json:"requirement"`
	ProductCategory string `json:"product_category"`
	Model           string `json:"model,omitempty"`
}

type ServiceGeneration struct {
	ServiceID        string  `json:"service_id"`
	Status           string  `json:"status"`
	EstimatedCost    float64 `json:"estimated_cost"`
	EstimatedCostCNY float64 `json:"estimated_cost_cny"`
	EstimatedTime    int     `json:"estimated_time"`
	Message          string  `json:"message"`
}

type ServiceStatus struct {
	ServiceID      string   `json:"service_id"`
	Status         string   `json:"status"`
	Progress       int      `json:"progress"`
	CurrentStage   string   `json:"current_stage,omitempty"`
	Message        string   `json:"message,omitempty"`
	Cost           *float64 `json:"cost,omitempty"`
	QualityScore   *float64 `json:"quality_score,omitempty"`
	GenerationTime *int     `json:"generation_time,omitempty"`
}

// Terminal reports whether generation has finished one way or the other.
func (s *ServiceStatus) Terminal() bool {
	switch s.Status {
	case SERVICE_STATUS_READY, SERVICE_STATUS_DEPLOYED, SERVICE_STATUS_FAILED:
		return true
	}
	return false
}

type Service struct {
	ServiceID           string     `json:"service_id"`
	FarmerID            string     `json:"farmer_id"`
	Name                string     `json:"name"`
	Description         string     `json:"description,omitempty"`
	Status              string     `json:"status"`
	ModelUsed           string     `json:"model_used,omitempty"`
	OriginalRequirement string     `json:"original_requirement"`
	Code                string     `json:"code,omitempty"`
	Readme              string     `json:"readme,omitempty"`
	Requirements        string     `json:"requirements,omitempty"`
	FilePath            string     `json:"file_path,omitempty"`
	GenerationCost      *float64   `json:"generation_cost,omitempty"`
	GenerationTime      *int       `json:"generation_time,omitempty"`
	QualityScore        *float64   `json:"quality_score,omitempty"`
	TestPassRate        *float64   `json:"test_pass_rate,omitempty"`
	IsDeployed          bool       `json:"is_deployed"`
	DeployedAt          *time.Time `json:"deployed_at,omitempty"`
	Endpoints           []string   `json:"endpoints"`
	TotalCalls          int        `json:"total_calls"`
	TotalErrors         int        `json:"total_errors"`
	AvgLatency          *float64   `json:"avg_latency,omitempty"`
	RefinementCount     int        `json:"refinement_count"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

type DeploymentRequest struct {
	ForceRedeploy bool            `json:"force_redeploy"`
	Config        json.RawMessage `json:"config,omitempty"`
}

type Deployment struct {
	ServiceID string   `json:"service_id"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
	Message   string   `json:"message"`
}

type ServiceAck struct {
	Message   string `json:"message"`
	ServiceID string `json:"service_id"`
}

type ToolCall struct {
	ToolName string `json:"tool_name"`
	Params   any    `json:"params"`
}

type ToolCallResult struct {
	Success   bool            `json:"success"`
	Result    json.RawMessage `json:"result"`
	LatencyMS float64         `json:"latency_ms"`
}

type ServiceLogs struct {
	ServiceID string            `json:"service_id"`
	Total     int               `json:"total"`
	Logs      []json.RawMessage `json:"logs"`
}

func (c *Client) GenerateService(ctx context.Context, in ServiceGenerationRequest) (*ServiceGeneration, error) {
	var out ServiceGeneration
	if err := c.send(ctx, http.MethodPost, "/services/generate", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ServiceStatus(ctx context.Context, id string) (*ServiceStatus, error) {
	var out ServiceStatus
	if err := c.get(ctx, pathf("/services/%s/status", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetService(ctx context.Context, id string) (*Service, error) {
	var out Service
	if err := c.get(ctx, pathf("/services/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListServices(ctx context.Context, params ListParams) (*Page[Service], error) {
	var out Page[Service]
	if err := c.get(ctx, "/services", params.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeployService(ctx context.Context, id string, in DeploymentRequest) (*Deployment, error) {
	var out Deployment
	if err := c.send(ctx, http.MethodPost, pathf("/services/%s/deploy", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StopService(ctx context.Context, id string) (*ServiceAck, error) {
	var out ServiceAck
	if err := c.send(ctx, http.MethodPost, pathf("/services/%s/stop", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) (*ServiceAck, error) {
	var out ServiceAck
	if err := c.send(ctx, http.MethodDelete, pathf("/services/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CallServiceTool(ctx context.Context, id string, in ToolCall) (*ToolCallResult, error) {
	var out ToolCallResult
	if err := c.send(ctx, http.MethodPost, pathf("/services/%s/call", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ServiceLogs wraps GET /services/{id}/logs; limit <= 0 uses the backend default.
func (c *Client) ServiceLogs(ctx context.Context, id string, limit int) (*ServiceLogs, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var out ServiceLogs
	if err := c.get(ctx, pathf("/services/%s/logs", id), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OptimizeService(ctx context.Context, id string) (json.RawMessage, error) {
	return c.rawSend(ctx, http.MethodPost, pathf("/services/%s/optimize", id), nil)
}

func (c *Client) EstimateServiceCost(ctx context.Context, in ServiceGenerationRequest) (json.RawMessage, error) {
	return c.rawSend(ctx, http.MethodPost, "/services/estimate-cost", in)
}
