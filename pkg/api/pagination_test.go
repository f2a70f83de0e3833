package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		expected PageRequest
	}{
		{"defaults", "", PageRequest{Page: 1, PageSize: 20}},
		{"explicit", "?page=3&pageSize=50", PageRequest{Page: 3, PageSize: 50}},
		{"clamps size", "?pageSize=1000", PageRequest{Page: 1, PageSize: 100}},
		{"bad values", "?page=-2&pageSize=abc", PageRequest{Page: 1, PageSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/tasks"+tt.query, nil)
			assert.Equal(t, tt.expected, ParsePagination(c))
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, PageRequest{Page: 2, PageSize: 2}, 5)

	assert.Equal(t, int64(3), resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)
	assert.Equal(t, int64(2), PageRequest{Page: 2, PageSize: 2}.GetOffset())

	empty := NewPageResponse[string](nil, DefaultPageRequest(), 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, int64(1), empty.TotalPages)
	assert.False(t, empty.HasNext)
}
