package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// StatusClient queries a message-status API by message id.
type StatusClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewStatusClient builds a status client for the given API endpoint.
func NewStatusClient(endpoint string, timeout time.Duration) *StatusClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StatusClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type statusResponse struct {
	Status    string `json:"status"`
	Delivered bool   `json:"delivered"`
}

// Lookup implements StatusFunc against the HTTP API.
func (c *StatusClient) Lookup(ctx context.Context, id common.Hash) (Status, error) {
	query := url.Values{}
	query.Set("id", id.Hex())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return StatusUnknown, fmt.Errorf("build status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusUnknown, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StatusUnknown, fmt.Errorf("read status response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// The relayer has not observed the message yet.
		return StatusPending, nil
	}
	if resp.StatusCode != http.StatusOK {
		return StatusUnknown, fmt.Errorf("status http %d", resp.StatusCode)
	}

	var parsed statusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return StatusUnknown, fmt.Errorf("parse status response: %w", err)
	}
	if parsed.Delivered || parsed.Status == "delivered" {
		return StatusDelivered, nil
	}
	return StatusPending, nil
}
