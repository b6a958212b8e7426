// Package client implements the typed HTTP gateway to the VulnAI
// backend. It is the only component that touches the network: one
// method per server capability, each returning a typed payload or a
// classified failure.
//
// Error taxonomy: malformed input is rejected before any request is
// sent (wrapped ErrValidation); a non-success response or network
// failure surfaces as *APIError or a wrapped transport error. There is
// no retry and no partial state change: a failed install or remove
// leaves the catalog untouched, and callers re-fetch rather than
// assume ordering between independent calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackfoxxx/VulnAI/internal/catalog"
	"github.com/blackfoxxx/VulnAI/internal/config"
	"github.com/blackfoxxx/VulnAI/internal/log"
	"github.com/blackfoxxx/VulnAI/internal/training"
)

// adminTokenHeader authenticates admin-scoped calls. Token
// provisioning and rotation live outside the console.
const adminTokenHeader = "X-Admin-Token"

// requestIDHeader correlates console requests in backend logs.
const requestIDHeader = "X-Request-ID"

// Gateway is the JSON HTTP boundary to the backend.
type Gateway struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  log.Logger
}

// New creates a Gateway from validated configuration.
func New(cfg *config.Config, logger log.Logger) (*Gateway, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		return nil, errors.New("client.New: logger is required")
	}

	base, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}

	return &Gateway{
		baseURL: base,
		token:   cfg.AdminToken,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Template is a named install recipe offered as a shortcut. Read-only
// from the console's perspective; used only to pre-fill the install
// form.
type Template struct {
	Key             string   `json:"-"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	GitRepoURL      string   `json:"git_repo_url,omitempty"`
	InstallCommands []string `json:"install_commands,omitempty"`
}

// InstallRequest asks the backend to install a tool.
// UsePreconfigured is true exactly when a name was chosen and no
// custom git URL was supplied, the literal historical condition, kept
// even when the name is not a known template.
type InstallRequest struct {
	Name             string   `json:"name"`
	GitRepoURL       string   `json:"git_repo_url,omitempty"`
	InstallCommands  []string `json:"install_commands"`
	Description      string   `json:"description,omitempty"`
	Category         string   `json:"category,omitempty"`
	UsePreconfigured bool     `json:"use_preconfigured"`
}

// ToolExecution reports a tool the assistant ran while answering.
type ToolExecution struct {
	ToolName string `json:"tool_name"`
	Output   string `json:"output"`
}

// ChatResponse is the assistant's answer. Both fields are optional and
// independently meaningful: a reply, a tool run, or both.
type ChatResponse struct {
	Reply         string         `json:"reply,omitempty"`
	ToolExecution *ToolExecution `json:"tool_execution,omitempty"`
}

// RegisterRequest describes a tool submitted for registration.
type RegisterRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Command        string `json:"command"`
	Category       string `json:"category,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty"`
}

// TrainingResult reports one completed training run.
type TrainingResult struct {
	ValidationAccuracy float64 `json:"validation_accuracy"`
	TrainingSamples    int     `json:"training_samples"`
	Timestamp          string  `json:"timestamp"`
}

// HealthStatus is the backend liveness report.
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// mlEngineOperational is the component value that means a trained
// model is available.
const mlEngineOperational = "operational"

// ModelOperational reports whether the ML engine has a trained model.
func (h HealthStatus) ModelOperational() bool {
	return h.Components["ml_engine"] == mlEngineOperational
}

// ListTools fetches the full catalog snapshot. The returned entries
// preserve the backend's listing order.
func (g *Gateway) ListTools(ctx context.Context) ([]catalog.Entry, error) {
	resp, err := g.do(ctx, http.MethodGet, "/api/tools/list", nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, g.logger)

	var payload struct {
		Tools json.RawMessage `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding tool list: %w", err)
	}

	entries, err := decodeOrderedTools(payload.Tools)
	if err != nil {
		return nil, fmt.Errorf("decoding tool list: %w", err)
	}
	return entries, nil
}

// ListPreconfigured fetches the install templates, in listing order.
func (g *Gateway) ListPreconfigured(ctx context.Context) ([]Template, error) {
	resp, err := g.do(ctx, http.MethodGet, "/api/tools/preconfigured", nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, g.logger)

	var payload struct {
		Tools json.RawMessage `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}

	templates, err := decodeOrderedTemplates(payload.Tools)
	if err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}
	return templates, nil
}

// InstallTool triggers a server-side install and returns the status
// message. The catalog is not updated here; callers must re-fetch.
func (g *Gateway) InstallTool(ctx context.Context, req InstallRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", fmt.Errorf("%w: tool name is required", ErrValidation)
	}

	resp, err := g.do(ctx, http.MethodPost, "/api/tools/install", req)
	if err != nil {
		return "", err
	}
	defer closeBody(resp, g.logger)

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding install response: %w", err)
	}
	return payload.Message, nil
}

// RemoveTool removes an installed tool by name.
func (g *Gateway) RemoveTool(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: tool name is required", ErrValidation)
	}

	resp, err := g.do(ctx, http.MethodDelete, "/api/tools/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	defer closeBody(resp, g.logger)
	return nil
}

// SendChatMessage posts one user message and returns the assistant's
// response. Empty text is a validation failure, not a request.
func (g *Gateway) SendChatMessage(ctx context.Context, text string) (ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return ChatResponse{}, fmt.Errorf("%w: empty chat message", ErrValidation)
	}

	body := struct {
		Message string `json:"message"`
	}{Message: text}

	resp, err := g.do(ctx, http.MethodPost, "/api/chat", body)
	if err != nil {
		return ChatResponse{}, err
	}
	defer closeBody(resp, g.logger)

	var payload ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ChatResponse{}, fmt.Errorf("decoding chat response: %w", err)
	}
	return payload, nil
}

// InvokeTool runs a tool directly, outside the chat flow. The
// parameters must be a well-formed JSON object; malformed input is
// rejected without a network round trip.
func (g *Gateway) InvokeTool(ctx context.Context, toolName, parametersJSON string) (string, error) {
	if strings.TrimSpace(toolName) == "" {
		return "", fmt.Errorf("%w: tool name is required", ErrValidation)
	}

	var parameters map[string]any
	if err := json.Unmarshal([]byte(parametersJSON), &parameters); err != nil {
		return "", fmt.Errorf("%w: parameters must be a JSON object: %v", ErrValidation, err)
	}

	body := struct {
		ToolName   string         `json:"tool_name"`
		Parameters map[string]any `json:"parameters"`
	}{ToolName: toolName, Parameters: parameters}

	resp, err := g.do(ctx, http.MethodPost, "/api/chat/tool", body)
	if err != nil {
		return "", err
	}
	defer closeBody(resp, g.logger)

	var payload struct {
		Output string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding tool output: %w", err)
	}
	return payload.Output, nil
}

// RegisterTool submits a tool registration and returns the
// confirmation message.
func (g *Gateway) RegisterTool(ctx context.Context, req RegisterRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", fmt.Errorf("%w: tool name is required", ErrValidation)
	}

	resp, err := g.do(ctx, http.MethodPost, "/api/register-tool", req)
	if err != nil {
		return "", err
	}
	defer closeBody(resp, g.logger)

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding register response: %w", err)
	}
	return payload.Message, nil
}

// SubmitTrainingData posts one labeled write-up entry.
func (g *Gateway) SubmitTrainingData(ctx context.Context, entry training.Entry) error {
	resp, err := g.do(ctx, http.MethodPost, "/api/admin/training-data", entry)
	if err != nil {
		return err
	}
	defer closeBody(resp, g.logger)
	return nil
}

// ListTrainingData fetches all submitted entries. Zero entries is an
// empty state, not an error.
func (g *Gateway) ListTrainingData(ctx context.Context) ([]training.Entry, error) {
	resp, err := g.do(ctx, http.MethodGet, "/api/admin/training-data", nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, g.logger)

	var payload struct {
		Entries []training.Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding training data: %w", err)
	}
	return payload.Entries, nil
}

// TriggerTraining starts a training run and reports the result.
func (g *Gateway) TriggerTraining(ctx context.Context) (TrainingResult, error) {
	resp, err := g.do(ctx, http.MethodPost, "/api/train", nil)
	if err != nil {
		return TrainingResult{}, err
	}
	defer closeBody(resp, g.logger)

	// The backend has emitted both the flat shape and one nested
	// under "data"; accept either.
	var payload struct {
		TrainingResult
		Data *TrainingResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return TrainingResult{}, fmt.Errorf("decoding training result: %w", err)
	}
	if payload.Data != nil {
		return *payload.Data, nil
	}
	return payload.TrainingResult, nil
}

// Health checks backend liveness. Unauthenticated.
func (g *Gateway) Health(ctx context.Context) (HealthStatus, error) {
	resp, err := g.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return HealthStatus{}, err
	}
	defer closeBody(resp, g.logger)

	var payload HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return HealthStatus{}, fmt.Errorf("decoding health response: %w", err)
	}
	return payload, nil
}

// do issues one request and returns the response with a 2xx status.
// Non-success responses are drained into an *APIError.
func (g *Gateway) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	u := *g.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// /health is the only unauthenticated surface.
	if strings.HasPrefix(path, "/api/") {
		req.Header.Set(adminTokenHeader, g.token)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	g.logger.Debug("gateway request", "method", method, "path", path, "request_id", requestID)

	resp, err := g.http.Do(req)
	if err != nil {
		g.logger.Warn("gateway request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp)
		closeBody(resp, g.logger)
		g.logger.Warn("gateway request rejected",
			"method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return nil, apiErr
	}
	return resp, nil
}

func closeBody(resp *http.Response, logger log.Logger) {
	if err := resp.Body.Close(); err != nil {
		logger.Debug("closing response body", "error", err)
	}
}
