package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rorical/DocPilot/internal/logger"
)

const (
	askPath         = "/api/ask"
	userInfoPath    = "/api/userinfo"
	cacheStatusPath = "/api/cache-status"

	requestIDHeader = "X-Request-ID"
	defaultTimeout  = 120 * time.Second
	maxBodyBytes    = 4 << 20
)

// TurnRequest is the body posted for one turn. Structured actions send an
// empty message and set exactly one of the flags.
type TurnRequest struct {
	Message      string `json:"message"`
	Confirmation *bool  `json:"confirmation,omitempty"`
	Regenerate   bool   `json:"regenerate,omitempty"`
	SkipPreview  bool   `json:"skip_preview,omitempty"`
}

// AgentReply is the agent's side of a turn.
type AgentReply struct {
	Message           string `json:"message"`
	NeedsConfirmation bool   `json:"needsConfirmation"`
	ConfirmationType  string `json:"confirmationType"`
	AllowRegenerate   bool   `json:"allowRegenerate"`
	AllowSkip         bool   `json:"allowSkip"`
	FileName          string `json:"fileName,omitempty"`
	Preview           string `json:"preview,omitempty"`

	RequestID string `json:"-"`
}

type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Guard      SessionGuard
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client sends turns to the agent backend. It never retries; a retry is a new
// turn initiated by the user.
type Client struct {
	baseURL string
	guard   SessionGuard
	http    *http.Client
	log     logger.Logger
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if opts.Guard == nil {
		return nil, fmt.Errorf("session guard is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL: base,
		guard:   opts.Guard,
		http:    httpClient,
		log:     log,
	}, nil
}

// Send posts one turn and returns the parsed reply. Failures are *Error.
func (c *Client) Send(ctx context.Context, turn TurnRequest) (*AgentReply, error) {
	payload, err := json.Marshal(turn)
	if err != nil {
		return nil, &Error{Kind: KindProtocol, Message: "failed to encode request", Err: err}
	}

	requestID := uuid.NewString()
	body, err := c.do(ctx, http.MethodPost, askPath, requestID, payload)
	if err != nil {
		return nil, err
	}

	var reply AgentReply
	if err := json.Unmarshal(body, &reply); err != nil {
		c.log.Warn("transport", "unparseable agent reply", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, &Error{Kind: KindProtocol, Message: "invalid response body", Err: err}
	}
	reply.RequestID = requestID
	return &reply, nil
}

// CheckSession asks the backend who we are. A rejected credential yields a
// KindAuth error.
func (c *Client) CheckSession(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, userInfoPath, uuid.NewString(), nil)
	if err != nil {
		return "", err
	}
	var info struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", &Error{Kind: KindProtocol, Message: "invalid userinfo body", Err: err}
	}
	return info.UserID, nil
}

// CacheStatus reports whether the backend finished indexing the user's drive.
func (c *Client) CacheStatus(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, cacheStatusPath, uuid.NewString(), nil)
	if err != nil {
		return "", err
	}
	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return "", &Error{Kind: KindProtocol, Message: "invalid cache status body", Err: err}
	}
	return status.Status, nil
}

func (c *Client) do(ctx context.Context, method, path, requestID string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "failed to build request", Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	if err := c.guard.AttachCredential(req); err != nil {
		return nil, &Error{Kind: KindAuth, Message: "no valid credential", Err: err}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("transport", "request failed", map[string]interface{}{
			"request_id": requestID,
			"path":       path,
			"error":      err.Error(),
		})
		return nil, &Error{Kind: KindNetwork, Message: "no response from agent", Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	c.log.Debug("transport", "response received", map[string]interface{}{
		"request_id": requestID,
		"path":       path,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Kind: KindServer, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if readErr != nil {
		if errors.Is(readErr, context.Canceled) || errors.Is(readErr, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: "response interrupted", Err: readErr}
		}
		return nil, &Error{Kind: KindProtocol, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: readErr}
	}
	return body, nil
}

// errorMessage extracts the backend's explanation from an error body.
func errorMessage(body []byte) string {
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		if msg := strings.TrimSpace(eb.Detail); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(eb.Error); msg != "" {
			return msg
		}
	}
	return genericFailure
}
