package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{-5, 1}, {-1, 1}, {0, 10}, {1, 1}, {7, 7}, {10, 10}, {11, 10}, {100, 10},
	}
	for _, tt := range tests {
		got := ClampLimit(tt.in)
		assert.Equal(t, tt.want, got, "ClampLimit(%d)", tt.in)
		assert.GreaterOrEqual(t, got, MinLimit)
		assert.LessOrEqual(t, got, MaxLimit)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{-3, 1}, {0, 1}, {1, 1}, {7, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPage(tt.in), "ClampPage(%d)", tt.in)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name                  string
		total, page, limit    int64
		wantPages, wantersize int64
	}{
		{"exact pages", 20, 1, 10, 2, 10},
		{"partial last page", 21, 3, 10, 3, 10},
		{"empty", 0, 1, 10, 0, 10},
		{"oversized limit clamped", 15, 1, 50, 2, 10},
		{"single item", 1, 1, 10, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.total, p.TotalItems)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantersize, p.PageSize)
			assert.GreaterOrEqual(t, p.CurrentPage, int64(1))
		})
	}
}

// TestSliceBoundsMatchesSkipLimit verifies the in-memory window equals the
// store-level skip/limit math for every page over a small set.
//
// TestSliceBoundsMatchesSkipLimit 验证内存窗口与存储级skip/limit数学
// 在小数据集的每一页上都一致。
func TestSliceBoundsMatchesSkipLimit(t *testing.T) {
	const total = 23
	for page := int64(1); page <= 4; page++ {
		for _, limit := range []int64{3, 10} {
			start, end := SliceBounds(total, page, limit)
			skip := Skip(page, limit)
			wantStart := skip
			if wantStart > total {
				wantStart = total
			}
			wantEnd := wantStart + ClampLimit(limit)
			if wantEnd > total {
				wantEnd = total
			}
			assert.Equal(t, wantStart, start, "page=%d limit=%d", page, limit)
			assert.Equal(t, wantEnd, end, "page=%d limit=%d", page, limit)
		}
	}

	// Past-the-end page yields an empty window, never a panic.
	// 超出末尾的页产生空窗口，绝不崩溃。
	start, end := SliceBounds(5, 9, 10)
	assert.Equal(t, start, end)
}
