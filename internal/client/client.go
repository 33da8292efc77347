// Package client talks to the analysis API on behalf of the terminal UI.
package client

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
)

const (
	EmptyIdeaMessage  = "Idea text cannot be empty."
	UnexpectedMessage = "An unexpected error occurred while analyzing the idea."

	defaultTimeout = 90 * time.Second
	maxBodyBytes   = 4 << 20
)

// Error carries the user-facing failure message. StatusCode is zero when the
// request never got a response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// Message returns the text to show for err.
func Message(err error) string {
	var cErr *Error
	if errors.As(err, &cErr) && cErr.Message != "" {
		return cErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return UnexpectedMessage
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// Analyze posts the idea to /api/analyze and returns the response object.
func (c *Client) Analyze(ctx context.Context, idea string) (Payload, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, &Error{Message: EmptyIdeaMessage}
	}

	body, err := json.Marshal(map[string]string{"idea": idea})
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &Error{Message: transportMessage(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: transportMessage(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: serverMessage(resp, data)}
	}

	payload, err := ParsePayload(data)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("invalid response from server: %v", err)}
	}
	return payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// serverMessage prefers the envelope's message, then the HTTP status line.
func serverMessage(resp *http.Response, data []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &env) == nil && strings.TrimSpace(env.Message) != "" {
		return env.Message
	}
	if resp.Status != "" {
		return "Request failed with status " + resp.Status
	}
	return UnexpectedMessage
}

func transportMessage(err error) string {
	if err == nil || err.Error() == "" {
		return UnexpectedMessage
	}
	return err.Error()
}
