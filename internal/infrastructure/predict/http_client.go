// Package predict talks to the external prediction endpoint.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/ports"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

type predictRequest struct {
	Data []float64 `json:"data"`
}

// Models may emit class ids as floats (1.0); only integral values are accepted.
type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// HTTPClient posts feature vectors to a prediction endpoint.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	logger     ports.Logger
}

// NewHTTPClient builds a client for endpoint. A nil client gets one with timeout.
func NewHTTPClient(endpoint string, client *http.Client, timeout time.Duration, logger ports.Logger) *HTTPClient {
	if client == nil {
		if timeout <= 0 {
			timeout = domain.DefaultHTTPClientTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{endpoint: endpoint, httpClient: client, logger: logger}
}

// Predict implements ports.Predictor.
func (c *HTTPClient) Predict(ctx context.Context, features domain.FeatureVector) (domain.Prediction, error) {
	body, err := json.Marshal(predictRequest{Data: features.Slice()})
	if err != nil {
		return 0, &domain.RequestError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, &domain.RequestError{Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.debug("calling prediction endpoint", map[string]interface{}{
		"endpoint":   c.endpoint,
		"request_id": requestID,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &domain.RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return 0, &domain.RequestError{StatusCode: resp.StatusCode}
	}

	var parsed predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return 0, &domain.RequestError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Predictions) == 0 {
		return 0, &domain.RequestError{Err: errors.New("response contained no predictions")}
	}
	raw := parsed.Predictions[0]
	if raw != math.Trunc(raw) || math.Abs(raw) > math.MaxInt32 {
		return 0, &domain.RequestError{Err: fmt.Errorf("prediction %v is not a class id", raw)}
	}
	prediction := domain.Prediction(raw)

	c.debug("prediction received", map[string]interface{}{
		"request_id": requestID,
		"class_id":   int(prediction),
	})
	return prediction, nil
}

func (c *HTTPClient) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

var _ ports.Predictor = (*HTTPClient)(nil)
