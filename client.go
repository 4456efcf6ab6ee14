package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the case-management REST API. Only the board-adjacent
// endpoints are wrapped here; the rest of the portal is out of scope. The
// bearer token is attached to every request.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) GetBoard(ctx context.Context, caseID int64) (BoardState, error) {
	var state BoardState
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/board/", caseID), nil, &state)
	return state, err
}

// ReplaceBoard swaps the full board state in one call. Connections in the
// write body reference items by index since they have no ids yet.
func (c *Client) ReplaceBoard(ctx context.Context, caseID int64, write BoardWrite) (BoardState, error) {
	var state BoardState
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cases/%d/board/", caseID), write, &state)
	return state, err
}

func (c *Client) CreateItem(ctx context.Context, caseID int64, req CreateItemRequest) (BoardItem, error) {
	var item BoardItem
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/cases/%d/board/items/", caseID), req, &item)
	return item, err
}

func (c *Client) MoveItem(ctx context.Context, caseID, itemID int64, pos Position) (BoardItem, error) {
	var item BoardItem
	path := fmt.Sprintf("/cases/%d/board/items/%d/", caseID, itemID)
	err := c.do(ctx, http.MethodPatch, path, MoveItemRequest{Position: pos}, &item)
	return item, err
}

func (c *Client) DeleteItem(ctx context.Context, caseID, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cases/%d/board/items/%d/", caseID, itemID), nil, nil)
}

func (c *Client) CreateConnection(ctx context.Context, caseID, fromItem, toItem int64) (BoardConnection, error) {
	var conn BoardConnection
	req := CreateConnectionRequest{FromItem: fromItem, ToItem: toItem}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/cases/%d/board/connections/", caseID), req, &conn)
	return conn, err
}

func (c *Client) DeleteConnection(ctx context.Context, caseID, connectionID int64) error {
	path := fmt.Sprintf("/cases/%d/board/connections/%d/", caseID, connectionID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListCaseEvidence fetches the evidence briefs for the add-evidence picker.
func (c *Client) ListCaseEvidence(ctx context.Context, caseID int64) ([]EvidenceBrief, error) {
	var briefs []EvidenceBrief
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/evidence/?case=%d", caseID), nil, &briefs)
	return briefs, err
}

// UnreadCount is the best-effort notification poll. Callers ignore errors.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/notifications/unread-count/", nil, &body)
	return body.Count, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads the store's standardized error body. Any shape it
// cannot parse degrades to the HTTP status text; non-2xx never becomes a
// crash, only a recoverable error.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Detail string         `json:"detail"`
		Code   string         `json:"code"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
		apiErr.Code = body.Code
		apiErr.Fields = body.Fields
	} else {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
