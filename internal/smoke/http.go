package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/pkg/logger"
)

// client wraps http.Client with the service base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends body (raw bytes or a JSON-encodable value) and decodes the
// response into out when it is non-nil. The raw response body is returned.
func (c *client) do(ctx context.Context, method, path string, body any, want int, out any) ([]byte, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("method", method), goerr.V("path", path))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response", goerr.V("path", path))
	}
	if resp.StatusCode != want {
		return data, goerr.Wrap(ErrUnexpectedStatus, "unexpected response",
			goerr.V("method", method), goerr.V("path", path),
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return data, goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
		}
	}
	return data, nil
}
