package query

import "github.com/weblarek/backend/internal/model"

// Pagination bounds. The page size is clamped to [MinLimit, MaxLimit]
// regardless of what the client requested.
//
// 分页边界。无论客户端请求什么，页大小都被钳制在[MinLimit, MaxLimit]内。
const (
	MinLimit     int64 = 1
	MaxLimit     int64 = 10
	DefaultLimit int64 = 10
)

// ClampLimit forces a requested page size into [MinLimit, MaxLimit].
// A zero value means "not supplied" and yields the default.
//
// ClampLimit 将请求的页大小强制收敛到[MinLimit, MaxLimit]。
// 零值表示"未提供"，返回默认值。
func ClampLimit(limit int64) int64 {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampPage forces a requested page number to be at least 1.
// ClampPage 将请求的页码强制为至少1。
func ClampPage(page int64) int64 {
	if page < 1 {
		return 1
	}
	return page
}

// NewPagination assembles the envelope from the post-filter, pre-slice
// total. page and limit are clamped again so every construction site obeys
// the same bounds.
//
// NewPagination 根据过滤之后、切片之前的总数组装分页信封。
// page和limit会再次钳制，使每个构造点遵守相同的边界。
func NewPagination(total, page, limit int64) model.Pagination {
	limit = ClampLimit(limit)
	page = ClampPage(page)
	totalPages := (total + limit - 1) / limit
	return model.Pagination{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    limit,
	}
}

// SliceBounds computes the [start, end) window of a page over an in-memory
// result set. The math is identical to a store-level skip/limit, which is
// required because the non-admin search path slices in memory while every
// other path slices at the store.
//
// SliceBounds 计算内存结果集上一页的[start, end)窗口。其数学与存储级的
// skip/limit完全相同，这是必需的，因为非管理员搜索路径在内存中切片，
// 而其他路径都在存储层切片。
func SliceBounds(total, page, limit int64) (int64, int64) {
	limit = ClampLimit(limit)
	page = ClampPage(page)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Skip returns the store-level skip offset for a page.
// Skip 返回一页对应的存储级跳过偏移量。
func Skip(page, limit int64) int64 {
	return (ClampPage(page) - 1) * ClampLimit(limit)
}
