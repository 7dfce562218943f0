package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CallPage is one page of call history
type CallPage struct {
	Calls      []*CallLog  `json:"calls"`
	Pagination *Pagination `json:"pagination"`
}

// CallQuery filters a call history page. Zero values use server
// defaults.
type CallQuery struct {
	Page  int
	Limit int
	Type  string
}

// Calls returns a page of call history. Failures are swallowed to an
// empty page with a logged diagnostic.
func (c *Client) Calls(ctx context.Context, q CallQuery) *CallPage {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	path := "/api/calls"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out CallPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		c.logger.Warn("calls list failed", "error", err.Error())
		return &CallPage{Calls: []*CallLog{}, Pagination: &Pagination{Page: 1}}
	}
	if out.Calls == nil {
		out.Calls = []*CallLog{}
	}
	return &out
}

// LegacyCalls returns the flat call log list. Failures are swallowed
// to an empty list with a logged diagnostic.
func (c *Client) LegacyCalls(ctx context.Context) []*CallLog {
	var out []*CallLog
	if err := c.do(ctx, http.MethodGet, "/api/call-logs", nil, &out); err != nil {
		c.logger.Warn("call log list failed", "error", err.Error())
		return []*CallLog{}
	}
	return out
}
