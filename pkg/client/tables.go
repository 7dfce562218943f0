package client

import (
	"context"
	"net/http"
)

// WalkIn describes a walk-in party
type WalkIn struct {
	CustomerName  string `json:"customerName,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	PartySize     int    `json:"partySize"`
}

// DeactivateTable soft-deletes a table, keeping its booking history
func (c *Client) DeactivateTable(ctx context.Context, tableID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tables/"+tableID, nil, nil)
}

// HardDeleteTable removes a table permanently. The layout editor uses
// this when discarding a table.
func (c *Client) HardDeleteTable(ctx context.Context, tableID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tables/"+tableID+"/hard", nil, nil)
}

// SeatWalkIn seats a walk-in party at a table
func (c *Client) SeatWalkIn(ctx context.Context, tableID string, walkIn WalkIn) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/api/tables/"+tableID+"/seat", walkIn, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTableAvailable frees a table, ending its active booking if any
func (c *Client) SetTableAvailable(ctx context.Context, tableID string) error {
	return c.do(ctx, http.MethodPost, "/api/tables/"+tableID+"/available", nil, nil)
}

// ToggleMaintenance flips a table's maintenance state
func (c *Client) ToggleMaintenance(ctx context.Context, tableID string) (*Table, error) {
	var out Table
	if err := c.do(ctx, http.MethodPost, "/api/tables/"+tableID+"/maintenance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
