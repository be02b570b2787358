package pagination_test

import (
	"net/url"
	"testing"

	"github.com/planloom/minutes/pkg/pagination"
)

func testConfig(t *testing.T) pagination.Config {
	t.Helper()
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cfg
}

func TestNormalize(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid request", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage {
				t.Errorf("page: got %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("page size: got %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := testConfig(t)

	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "5")
	values.Set("search", "processed")

	req := pagination.PageRequestFromQuery(values, cfg)
	if req.Page != 2 || req.PageSize != 5 {
		t.Errorf("got page %d size %d, want 2/5", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "processed" {
		t.Errorf("search: got %v", req.Search)
	}

	req = pagination.PageRequestFromQuery(url.Values{}, cfg)
	if req.Page != 1 || req.PageSize != cfg.DefaultPageSize {
		t.Errorf("defaults: got page %d size %d", req.Page, req.PageSize)
	}
	if req.Search != nil {
		t.Errorf("empty search must stay nil, got %v", req.Search)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	result := pagination.Slice(items, pagination.PageRequest{Page: 2, PageSize: 2})
	if result.Total != 5 {
		t.Errorf("total: got %d, want 5", result.Total)
	}
	if result.TotalPages != 3 {
		t.Errorf("total pages: got %d, want 3", result.TotalPages)
	}
	if len(result.Data) != 2 || result.Data[0] != 3 {
		t.Errorf("page data: got %v, want [3 4]", result.Data)
	}

	// Page past the end returns an empty slice, never an error.
	result = pagination.Slice(items, pagination.PageRequest{Page: 9, PageSize: 2})
	if len(result.Data) != 0 {
		t.Errorf("out-of-range page: got %v, want empty", result.Data)
	}

	result = pagination.Slice([]int{}, pagination.PageRequest{Page: 1, PageSize: 10})
	if result.Total != 0 || result.TotalPages != 1 {
		t.Errorf("empty collection: total %d pages %d", result.Total, result.TotalPages)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 50, MaxPageSize: 10}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("default exceeding max must fail validation")
	}
}
