package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weblarek/backend/pkg/errors"
)

func TestBuildOrderFilterStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantFilter bool
	}{
		{"valid status", "delivering", true},
		{"another valid status", "cancelled", true},
		{"unknown status silently ignored", "shipped", false},
		{"empty status", "", false},
		{"case sensitive", "New", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := BuildOrderFilter(OrderListParams{Status: tt.status})
			require.NoError(t, err)
			_, ok := f["status"]
			assert.Equal(t, tt.wantFilter, ok)
		})
	}
}

func TestBuildOrderFilterDateToIncludesWholeDay(t *testing.T) {
	f, err := BuildOrderFilter(OrderListParams{OrderDateTo: "2024-03-05"})
	require.NoError(t, err)

	cond, ok := f["createdAt"]
	require.True(t, ok)
	require.NotNil(t, cond.Range)
	to, ok := cond.Range.To.(time.Time)
	require.True(t, ok)

	// An order created at 23:59:59.500 on the same day must fall inside
	// the inclusive upper bound.
	// 同一天23:59:59.500创建的订单必须落在闭区间上界之内。
	lateOrder := time.Date(2024, 3, 5, 23, 59, 59, 500e6, time.UTC)
	assert.False(t, lateOrder.After(to), "end-of-day bound must include %v, got bound %v", lateOrder, to)
	nextDay := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.True(t, nextDay.After(to))
}

func TestBuildOrderFilterDateFromInclusive(t *testing.T) {
	f, err := BuildOrderFilter(OrderListParams{OrderDateFrom: "2024-03-05"})
	require.NoError(t, err)
	from, ok := f["createdAt"].Range.From.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), from)
}

func TestBuildOrderFilterRFC3339Accepted(t *testing.T) {
	f, err := BuildOrderFilter(OrderListParams{OrderDateTo: "2024-03-05T12:30:00Z"})
	require.NoError(t, err)
	to := f["createdAt"].Range.To.(time.Time)
	assert.Equal(t, 12, to.Hour(), "explicit timestamps are taken as-is")
}

func TestBuildOrderFilterMalformedInputs(t *testing.T) {
	tests := []struct {
		name   string
		params OrderListParams
	}{
		{"bad amount from", OrderListParams{TotalAmountFrom: "ten"}},
		{"bad amount to", OrderListParams{TotalAmountTo: "1e"}},
		{"bad date", OrderListParams{OrderDateFrom: "05.03.2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildOrderFilter(tt.params)
			require.Error(t, err)
			assert.True(t, errors.IsBadRequest(err))
		})
	}
}

func TestBuildCustomerFilterRanges(t *testing.T) {
	f, err := BuildCustomerFilter(CustomerListParams{
		TotalAmountFrom: "100",
		TotalAmountTo:   "500.5",
		OrderCountFrom:  "2",
	})
	require.NoError(t, err)

	amount := f["totalAmount"]
	require.NotNil(t, amount.Range)
	assert.Equal(t, 100.0, amount.Range.From)
	assert.Equal(t, 500.5, amount.Range.To)

	count := f["orderCount"]
	require.NotNil(t, count.Range)
	assert.Equal(t, 2.0, count.Range.From)
	assert.Nil(t, count.Range.To)

	_, ok := f["createdAt"]
	assert.False(t, ok, "absent parameters contribute no constraint")
}

func TestSortDefaultsAndAllowList(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		order  string
		want   Sort
		entity string
	}{
		{"default", "", "", Sort{Field: "createdAt", Desc: true}, "order"},
		{"explicit asc", "totalAmount", "asc", Sort{Field: "totalAmount", Desc: false}, "order"},
		{"numeric desc", "orderNumber", "-1", Sort{Field: "orderNumber", Desc: true}, "order"},
		{"unknown field falls back", "secretField", "asc", Sort{Field: "createdAt", Desc: false}, "order"},
		{"operator field falls back", "$where", "asc", Sort{Field: "createdAt", Desc: false}, "order"},
		{"markup stripped", "<b>orderCount</b>", "asc", Sort{Field: "orderCount", Desc: false}, "customer"},
		{"markup-only field falls back", "<script>x</script>", "", Sort{Field: "createdAt", Desc: true}, "customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Sort
			if tt.entity == "customer" {
				got = CustomerSort(tt.field, tt.order)
			} else {
				got = OrderSort(tt.field, tt.order)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
