package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Floors lists the business's floors
func (c *Client) Floors(ctx context.Context) ([]*Floor, error) {
	var out []*Floor
	if err := c.do(ctx, http.MethodGet, "/api/floors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFloor creates a floor. Zero dimensions use the server default
// canvas.
func (c *Client) CreateFloor(ctx context.Context, name string, width, height float64) (*Floor, error) {
	body := map[string]any{"name": name, "width": width, "height": height}
	var out Floor
	if err := c.do(ctx, http.MethodPost, "/api/floors", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Layout fetches a floor and its active tables
func (c *Client) Layout(ctx context.Context, floorID string) (*FloorLayout, error) {
	var out FloorLayout
	if err := c.do(ctx, http.MethodGet, "/api/floors/"+floorID+"/layout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveLayout writes a batch of table placements
func (c *Client) SaveLayout(ctx context.Context, floorID string, placements []TablePlacement) ([]*Table, error) {
	body := map[string][]TablePlacement{"tables": placements}
	var out struct {
		Tables []*Table `json:"tables"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/floors/"+floorID+"/layout", body, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

// Live fetches the live snapshot of a floor
func (c *Client) Live(ctx context.Context, floorID string) (*LiveFloor, error) {
	var out LiveFloor
	if err := c.do(ctx, http.MethodGet, "/api/floors/"+floorID+"/live", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTable adds a table to a floor
func (c *Client) CreateTable(ctx context.Context, floorID string, p TablePlacement) (*Table, error) {
	var out Table
	if err := c.do(ctx, http.MethodPost, "/api/floors/"+floorID+"/tables", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadLayoutImage uploads a floor background image
func (c *Client) UploadLayoutImage(ctx context.Context, floorID, filename string, image io.Reader) (*Floor, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/floors/"+floorID+"/layout-image", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload layout image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}
	var out Floor
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// DeleteLayoutImage removes a floor background image
func (c *Client) DeleteLayoutImage(ctx context.Context, floorID string) (*Floor, error) {
	var out Floor
	if err := c.do(ctx, http.MethodDelete, "/api/floors/"+floorID+"/layout-image", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
