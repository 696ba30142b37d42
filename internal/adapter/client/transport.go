package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// endpoint identifies the provider behind an HTTP call for errors and metrics
type endpoint struct {
	providerID  string
	displayName string
	httpClient  *http.Client
}

// postJSON sends reqBody as JSON and decodes a 200 response into out.
// Every failure is returned as *entity.ProviderError.
func (e *endpoint) postJSON(ctx context.Context, url string, headers map[string]string, reqBody, out interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return newDecodeError(e.providerID, e.displayName, errors.Wrap(err, "error marshaling request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return newTransportError(e.providerID, e.displayName, errors.Wrap(err, "error creating request"))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	providerAPIDuration.WithLabelValues(e.providerID).Observe(time.Since(start).Seconds())
	if err != nil {
		providerAPICount.WithLabelValues(e.providerID, "error").Inc()
		return newTransportError(e.providerID, e.displayName, err)
	}
	defer resp.Body.Close()
	providerAPICount.WithLabelValues(e.providerID, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return newStatusError(e.providerID, e.displayName, resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newDecodeError(e.providerID, e.displayName, err)
	}

	return nil
}
