package api

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

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodySize = 10 << 20

type Config struct {
	BaseURL    string
	StorageURL string
	Timeout    time.Duration
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the remote REST API that owns catalog, users, addresses
// and transactions.
type Client struct {
	baseURL    string
	storageURL string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*response]
	log        logrus.FieldLogger
}

type response struct {
	status int
	body   []byte
}

func NewClient(cfg Config, log logrus.FieldLogger) *Client {
	base := NormalizeBaseURL(cfg.BaseURL)
	storageURL := cfg.StorageURL
	if storageURL == "" {
		storageURL = strings.Replace(base, "/api", "/storage", 1)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        "remote-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    base,
		storageURL: strings.TrimRight(storageURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		breaker: breaker,
		log:     log,
	}
}

// NormalizeBaseURL makes sure the base URL points at the /api prefix.
func NormalizeBaseURL(raw string) string {
	url := raw
	if url == "" {
		url = "http://localhost:8000/api"
	}
	if !strings.HasSuffix(url, "/api") && !strings.Contains(url, "/api/") {
		if strings.HasSuffix(url, "/") {
			url += "api"
		} else {
			url += "/api"
		}
	}
	return strings.TrimRight(url, "/")
}

// StorageURL resolves an uploaded file path to a public URL.
func (c *Client) StorageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return fmt.Sprintf("%s/%s", c.storageURL, strings.TrimPrefix(path, "storage/"))
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, token, in, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		r := &response{status: httpResp.StatusCode, body: data}
		if r.status >= http.StatusInternalServerError {
			return r, apiError(r)
		}
		return r, nil
	})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.status >= http.StatusBadRequest {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := decodeData(resp.body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func apiError(r *response) *Error {
	if r.status == http.StatusRequestEntityTooLarge {
		return &Error{Status: r.status, Message: "file too large (max 10MB)"}
	}
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(r.body, &payload)
	return &Error{Status: r.status, Message: payload.Message}
}

// decodeData unwraps the {"data": ...} envelope when the API uses one.
func decodeData(body []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		data := bytes.TrimSpace(envelope.Data)
		if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
			return json.Unmarshal(data, out)
		}
	}
	return json.Unmarshal(body, out)
}
