// Package pagination parses list query parameters and builds the list
// envelope returned by every collection endpoint.
package pagination

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a window into a result set. Search is the trimmed ?search=
// value shared by the list screens.
type Params struct {
	Limit  int
	Offset int
	Search string
}

// FromContext reads ?limit= with ?offset= or a 1-based ?page=. An explicit
// offset wins over page; out-of-range values are clamped.
func FromContext(c echo.Context) Params {
	limit := clamp(atoi(c.QueryParam("limit")), DefaultLimit)

	offset := atoi(c.QueryParam("offset"))
	if raw := c.QueryParam("offset"); raw == "" {
		if page := atoi(c.QueryParam("page")); page > 1 {
			offset = (page - 1) * limit
		}
	}
	if offset < 0 {
		offset = 0
	}

	return Params{
		Limit:  limit,
		Offset: offset,
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func clamp(limit, fallback int) int {
	switch {
	case limit <= 0:
		return fallback
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Page returns the 1-based page holding Offset.
func (p Params) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// Response is the list envelope. NextOffset and PrevOffset are omitted at
// the ends of the result set.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
	Page       int         `json:"page"`
	Pages      int         `json:"pages"`
	HasMore    bool        `json:"has_more"`
	NextOffset *int        `json:"next_offset,omitempty"`
	PrevOffset *int        `json:"prev_offset,omitempty"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	p := Params{Limit: limit, Offset: offset}
	resp := &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Page:    p.Page(),
		HasMore: offset+limit < total,
	}
	if limit > 0 {
		resp.Pages = (total + limit - 1) / limit
	}
	if resp.HasMore {
		next := offset + limit
		resp.NextOffset = &next
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		resp.PrevOffset = &prev
	}
	return resp
}
