package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"riverbird-standalone/internal/logger"
)

// HTTPConfig configures the admin API client.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultHTTPConfig targets the default admin address of a local launcher.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		BaseURL: "http://127.0.0.1:5699",
		Timeout: 5 * time.Second,
	}
}

// HTTPResponse is a decoded admin API reply.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// Client talks to a running launcher's admin API.
type Client struct {
	config *HTTPConfig
	client *http.Client
}

/**
 * Create new HTTP client for the launcher admin API
 * @param {HTTPConfig} config - Client configuration; nil selects defaults
 * @returns {*Client} Ready-to-use client
 */
func NewClient(config *HTTPConfig) *Client {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Get sends a GET request to the given API path.
func (c *Client) Get(path string) (*HTTPResponse, error) {
	return c.do("GET", path, nil)
}

// Post sends a POST request with an optional JSON body.
func (c *Client) Post(path string, data interface{}) (*HTTPResponse, error) {
	return c.do("POST", path, data)
}

// GetJSON sends a GET request and unmarshals the reply into out.
func (c *Client) GetJSON(path string, out interface{}) error {
	resp, err := c.Get(path)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(resp.Body))
	}
	return json.Unmarshal(resp.Body, out)
}

func (c *Client) do(method, path string, data interface{}) (*HTTPResponse, error) {
	url := c.config.BaseURL + path
	logger.Debugf("Sending %s request to %s", method, url)

	var body io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &HTTPResponse{StatusCode: resp.StatusCode, Body: raw}, nil
}
