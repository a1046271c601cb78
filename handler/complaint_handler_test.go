package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListPaging(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPage int
		wantSize int
	}{
		{"defaults", "/api/complaints", 0, 20},
		{"explicit page and size", "/api/complaints?page=2&size=50", 2, 50},
		{"negative page clamps to zero", "/api/complaints?page=-3", 0, 20},
		{"zero size falls back to default", "/api/complaints?size=0", 0, 20},
		{"oversized page capped", "/api/complaints?size=5000", 0, 100},
		{"garbage values ignored", "/api/complaints?page=abc&size=xyz", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, size := listPaging(r)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
