// Package remote implements the gateways against the vehicle registry API:
// JSON over HTTP, one round trip per operation, token auth via the
// "Authorization: token <t>" header scheme.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vehicleregistry/internal/domain"
)

// APIError is a non-2xx response from the registry API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Body)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	vault      domain.TokenVault
	log        *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, v domain.TokenVault, log *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		vault:      v,
		log:        log,
	}
}

// request performs one round trip. When authed is true the token is read
// from the vault and attached; login/register go out bare.
func (c *Client) request(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.vault.Get()
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "token "+token)
		}
	}

	reqID := uuid.NewString()
	fields := logrus.Fields{"request_id": reqID, "method": method, "path": path}
	c.log.WithFields(fields).Debug("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("api transport failure")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	fields["status"] = resp.StatusCode
	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		c.log.WithFields(fields).Warn("api rejected request")
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}
	c.log.WithFields(fields).Debug("api response")
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
