package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rickeysan/hiit-score-app/internal"
)

var ErrRejected = errors.New("push: provider rejected message")

// HTTPProvider posts messages to an FCM v1 style endpoint.
type HTTPProvider struct {
	Endpoint   string
	ServerKey  string
	HTTPClient *http.Client
	logger     internal.Logger
}

func NewHTTPProvider(endpoint, serverKey string, logger internal.Logger) *HTTPProvider {
	return &HTTPProvider{
		Endpoint:   endpoint,
		ServerKey:  serverKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type sendRequest struct {
	Message *Message `json:"message"`
}

type sendResponse struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *HTTPProvider) Send(ctx context.Context, msg *Message) (string, error) {
	payload, err := json.Marshal(sendRequest{Message: msg})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(payload))
	if err != nil {
		p.logger.Errorf("push: failed to create request: %v", err)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.ServerKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.ServerKey)
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		p.logger.Errorf("push: failed to call provider: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Error.Message != "" {
			return "", fmt.Errorf("%w: %d %s: %s", ErrRejected, resp.StatusCode, er.Error.Status, er.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		p.logger.Errorf("push: failed to decode provider response: %v", err)
		return "", err
	}
	if sr.Name == "" {
		return "", fmt.Errorf("%w: empty message id", ErrRejected)
	}
	return sr.Name, nil
}

// LogProvider only logs messages. Used when no endpoint is configured.
type LogProvider struct {
	logger internal.Logger
}

func NewLogProvider(logger internal.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Send(ctx context.Context, msg *Message) (string, error) {
	id := "local/messages/" + uuid.NewString()
	p.logger.Infof("push: would deliver %q to token %s (id=%s)", msg.Notification.Title, msg.Token, id)
	return id, nil
}

var (
	_ Provider = (*HTTPProvider)(nil)
	_ Provider = (*LogProvider)(nil)
)
