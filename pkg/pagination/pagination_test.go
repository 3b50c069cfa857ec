package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextFor(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
		wantSearch string
	}{
		{"", DefaultLimit, 0, ""},
		{"?limit=50&offset=10", 50, 10, ""},
		{"?limit=10&page=3", 10, 20, ""},
		{"?limit=10&page=3&offset=5", 10, 5, ""},
		{"?limit=500", MaxLimit, 0, ""},
		{"?limit=-4", DefaultLimit, 0, ""},
		{"?offset=-5", DefaultLimit, 0, ""},
		{"?page=0", DefaultLimit, 0, ""},
		{"?search=%20Asha%20", DefaultLimit, 0, "Asha"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := FromContext(contextFor(tt.query))
			if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset || p.Search != tt.wantSearch {
				t.Errorf("FromContext(%q) = %+v, want limit %d offset %d search %q",
					tt.query, p, tt.wantLimit, tt.wantOffset, tt.wantSearch)
			}
		})
	}
}

func TestParams_Page(t *testing.T) {
	if got := (Params{Limit: 10, Offset: 20}).Page(); got != 3 {
		t.Errorf("expected page 3, got %d", got)
	}
	if got := (Params{}).Page(); got != 1 {
		t.Errorf("expected page 1 for zero limit, got %d", got)
	}
}

func TestNewResponse_MiddlePage(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 45, 20, 20)

	if !resp.HasMore || resp.Page != 2 || resp.Pages != 3 {
		t.Errorf("unexpected envelope %+v", resp)
	}
	if resp.NextOffset == nil || *resp.NextOffset != 40 {
		t.Errorf("expected next offset 40, got %v", resp.NextOffset)
	}
	if resp.PrevOffset == nil || *resp.PrevOffset != 0 {
		t.Errorf("expected prev offset 0, got %v", resp.PrevOffset)
	}
}

func TestNewResponse_Ends(t *testing.T) {
	first := NewResponse(nil, 20, 20, 0)
	if first.HasMore || first.NextOffset != nil || first.PrevOffset != nil {
		t.Errorf("expected a single complete page, got %+v", first)
	}

	last := NewResponse(nil, 25, 10, 20)
	if last.HasMore || last.NextOffset != nil {
		t.Error("expected no next page on the last page")
	}
	if last.PrevOffset == nil || *last.PrevOffset != 10 {
		t.Errorf("expected prev offset 10, got %v", last.PrevOffset)
	}

	odd := NewResponse(nil, 30, 20, 5)
	if odd.PrevOffset == nil || *odd.PrevOffset != 0 {
		t.Errorf("expected prev offset clamped to 0, got %v", odd.PrevOffset)
	}

	empty := NewResponse(nil, 0, 20, 0)
	if empty.Pages != 0 || empty.HasMore {
		t.Errorf("unexpected empty envelope %+v", empty)
	}
}
