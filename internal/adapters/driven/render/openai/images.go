// Package openai provides an image rendering adapter using the OpenAI
// images API.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure ImageRenderer implements the interface.
var _ driven.ImageRenderer = (*ImageRenderer)(nil)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultImageModel   = "gpt-image-1"
	DefaultImageTimeout = 120 * time.Second

	// Fixed generation parameters for icon artwork.
	imageSize         = "1024x1024"
	imageBackground   = "transparent"
	imageOutputFormat = "png"

	maxErrorBodyBytes = 512
)

// ImageConfig holds configuration for the OpenAI image renderer.
type ImageConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the image model to use (default: gpt-image-1).
	Model string

	// Timeout is the per-request timeout (default: 120s). Image
	// generation is slower than chat completion.
	Timeout time.Duration

	// USDPerImage is the flat per-image cost estimate.
	USDPerImage float64
}

// ImageRenderer generates PNG icon artwork from rendering prompts.
type ImageRenderer struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	usdPerImage float64
}

// imageRequest is the OpenAI /images/generations request format.
type imageRequest struct {
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	Size         string `json:"size"`
	Background   string `json:"background"`
	OutputFormat string `json:"output_format"`
}

// imageResponse is the OpenAI /images/generations response format.
type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewImageRenderer creates a new OpenAI image renderer.
func NewImageRenderer(cfg ImageConfig) (*ImageRenderer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultImageModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultImageTimeout
	}

	return &ImageRenderer{
		client:      &http.Client{},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		usdPerImage: cfg.USDPerImage,
	}, nil
}

// ModelName returns the configured image model identifier.
func (r *ImageRenderer) ModelName() string {
	return r.model
}

// CostPerImageUSD returns the flat per-image cost estimate.
func (r *ImageRenderer) CostPerImageUSD() float64 {
	return r.usdPerImage
}

// Render generates one 1024x1024 transparent-background PNG for the
// prompt and returns the decoded bytes.
func (r *ImageRenderer) Render(ctx context.Context, prompt string) ([]byte, error) {
	reqBody := imageRequest{
		Model:        r.model,
		Prompt:       prompt,
		Size:         imageSize,
		Background:   imageBackground,
		OutputFormat: imageOutputFormat,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(
		callCtx,
		http.MethodPost,
		r.baseURL+"/images/generations",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: after %s", domain.ErrUpstreamTimeout, r.timeout)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrUpstream, resp.StatusCode, truncate(body, maxErrorBodyBytes))
	}

	var imgResp imageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrParse, err)
	}

	if imgResp.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, imgResp.Error.Message)
	}
	if len(imgResp.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data returned", domain.ErrUpstream)
	}

	png, err := base64.StdEncoding.DecodeString(imgResp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image payload: %v", domain.ErrParse, err)
	}
	return png, nil
}

// truncate bounds an upstream body for error reporting.
func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "...(truncated)"
}
