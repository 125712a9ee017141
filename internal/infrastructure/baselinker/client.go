package baselinker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/feedlink/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public BaseLinker API host
	DefaultBaseURL = "https://api.baselinker.com"

	statusSuccess = "SUCCESS"
	tokenHeader   = "X-BLToken"
)

// Config holds BaseLinker client settings
type Config struct {
	Token             string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Client handles communication with the BaseLinker connector API
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new BaseLinker API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// BaseLinker allows 100 requests per minute per token
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		token:       cfg.Token,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: limiter,
		logger:      logger.With(zap.String("component", "baselinker")),
	}
}

// Configured reports whether an API token is set
func (c *Client) Configured() bool {
	return c.token != ""
}

// Call invokes a connector method and decodes the response envelope.
// A non-SUCCESS status is returned as ErrBaseLinkerFailure along with the decoded response.
func (c *Client) Call(ctx context.Context, method string, parameters map[string]interface{}) (*domain.APIResponse, error) {
	if !c.Configured() {
		return nil, domain.ErrBaseLinkerNotConfigured
	}
	if parameters == nil {
		parameters = map[string]interface{}{}
	}

	encoded, err := json.Marshal(parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	form := url.Values{}
	form.Set("method", method)
	form.Set("parameters", string(encoded))

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/connector.php", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(tokenHeader, c.token)

	c.logger.Debug("calling API", zap.String("method", method), zap.ByteString("parameters", encoded))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request error", zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrBaseLinkerFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrBaseLinkerFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("API error", zap.String("method", method), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", domain.ErrBaseLinkerFailure, resp.StatusCode)
	}

	apiResp, err := decodeResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrBaseLinkerFailure, err)
	}
	if apiResp.Status != statusSuccess {
		c.logger.Warn("API returned error status",
			zap.String("method", method),
			zap.String("error_code", apiResp.ErrorCode),
			zap.String("error_message", apiResp.ErrorMessage),
		)
		return apiResp, fmt.Errorf("%w: %s %s", domain.ErrBaseLinkerFailure, apiResp.ErrorCode, apiResp.ErrorMessage)
	}

	return apiResp, nil
}

// decodeResponse maps the raw JSON envelope to an APIResponse
func decodeResponse(body []byte) (*domain.APIResponse, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	resp := &domain.APIResponse{Payload: payload}
	resp.Status, _ = payload["status"].(string)
	resp.ErrorCode, _ = payload["error_code"].(string)
	resp.ErrorMessage, _ = payload["error_message"].(string)
	if resp.ErrorMessage == "" {
		resp.ErrorMessage, _ = payload["error"].(string)
	}
	return resp, nil
}
