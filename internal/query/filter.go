// Package query defines the engine-independent Filter Expression, the
// builders that translate normalized list parameters into it, the
// defense-in-depth aggregation sanitizer, and the pagination engine.
//
// Package query 定义与引擎无关的过滤表达式、将规范化列表参数翻译为
// 过滤表达式的构建器、纵深防御的聚合清理器以及分页引擎。
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/sanitize"
	"github.com/weblarek/backend/pkg/errors"
)

// Range is a bounded interval; either side may be nil. Both bounds are
// inclusive. Values are float64 or time.Time depending on the field.
//
// Range 是一个有界区间；任一侧都可以为nil。两个边界都是闭区间。
// 根据字段不同，值为float64或time.Time。
type Range struct {
	From any
	To   any
}

// Cond constrains a single field: an equality against a literal, a bounded
// range, or membership in an identity set. Exactly one form is populated.
//
// Cond 约束单个字段：与字面值相等、有界区间或身份集合成员关系。
// 只会填充其中一种形式。
type Cond struct {
	Eq    any
	Range *Range
	In    []string
}

// Filter is the sanitized, field-scoped intermediate representation of
// "what subset of records to match", independent of the query engine.
// Invariant: no key and no string value begins with the operator sentinel.
//
// Filter 是经过清理、按字段限定的"匹配哪些记录"的中间表示，
// 与查询引擎无关。不变量：任何键和字符串值都不以操作符哨兵开头。
type Filter map[string]Cond

// Sort is a single field/direction pair.
// Sort 是单个字段/方向对。
type Sort struct {
	Field string
	Desc  bool
}

// dateOnly is the layout of date-only range parameters.
const dateOnly = "2006-01-02"

// Field names usable in filters and sorts, per entity. Anything outside
// these sets contributes no constraint.
//
// 每个实体可用于过滤和排序的字段名。集合之外的任何内容都不构成约束。
var (
	customerSortFields = map[string]bool{
		"createdAt": true, "lastOrderDate": true, "totalAmount": true,
		"orderCount": true, "name": true, "email": true,
	}
	orderSortFields = map[string]bool{
		"createdAt": true, "orderNumber": true, "totalAmount": true, "status": true,
	}
)

// CustomerListParams is the normalized parameter set of the customer
// listing endpoint, extracted from the query string by the handler.
//
// CustomerListParams 是客户列表端点的规范化参数集，由处理器从查询字符串提取。
type CustomerListParams struct {
	RegistrationDateFrom string
	RegistrationDateTo   string
	LastOrderDateFrom    string
	LastOrderDateTo      string
	TotalAmountFrom      string
	TotalAmountTo        string
	OrderCountFrom       string
	OrderCountTo         string
	Search               string
	SortField            string
	SortOrder            string
	Page                 int64
	Limit                int64
}

// OrderListParams is the normalized parameter set of the order listing
// endpoints.
//
// OrderListParams 是订单列表端点的规范化参数集。
type OrderListParams struct {
	Status          string
	TotalAmountFrom string
	TotalAmountTo   string
	OrderDateFrom   string
	OrderDateTo     string
	Search          string
	SortField       string
	SortOrder       string
	Page            int64
	Limit           int64
}

// BuildCustomerFilter translates customer list parameters into a Filter.
// Absent parameters contribute no constraint; malformed numeric or date
// values fail with BadRequest.
//
// BuildCustomerFilter 将客户列表参数翻译为Filter。
// 缺失的参数不构成约束；格式错误的数字或日期值以BadRequest失败。
func BuildCustomerFilter(p CustomerListParams) (Filter, error) {
	f := Filter{}
	if err := addDateRange(f, "createdAt", p.RegistrationDateFrom, p.RegistrationDateTo); err != nil {
		return nil, err
	}
	if err := addDateRange(f, "lastOrderDate", p.LastOrderDateFrom, p.LastOrderDateTo); err != nil {
		return nil, err
	}
	if err := addNumberRange(f, "totalAmount", p.TotalAmountFrom, p.TotalAmountTo); err != nil {
		return nil, err
	}
	if err := addNumberRange(f, "orderCount", p.OrderCountFrom, p.OrderCountTo); err != nil {
		return nil, err
	}
	return f, nil
}

// BuildOrderFilter translates order list parameters into a Filter. An
// unrecognized status value is silently ignored rather than rejected, so
// the status enumeration cannot be probed through error responses.
//
// BuildOrderFilter 将订单列表参数翻译为Filter。无法识别的状态值被静默
// 忽略而不是拒绝，因此无法通过错误响应探测状态枚举。
func BuildOrderFilter(p OrderListParams) (Filter, error) {
	f := Filter{}
	if model.ValidStatus(p.Status) {
		f["status"] = Cond{Eq: p.Status}
	}
	if err := addNumberRange(f, "totalAmount", p.TotalAmountFrom, p.TotalAmountTo); err != nil {
		return nil, err
	}
	if err := addDateRange(f, "createdAt", p.OrderDateFrom, p.OrderDateTo); err != nil {
		return nil, err
	}
	return f, nil
}

// CustomerSort resolves the sort parameter pair for customer listings.
// CustomerSort 解析客户列表的排序参数对。
func CustomerSort(field, order string) Sort {
	return parseSort(field, order, customerSortFields, Sort{Field: "createdAt", Desc: true})
}

// OrderSort resolves the sort parameter pair for order listings.
// OrderSort 解析订单列表的排序参数对。
func OrderSort(field, order string) Sort {
	return parseSort(field, order, orderSortFields, Sort{Field: "createdAt", Desc: true})
}

// parseSort strips markup from the requested field name before it can be
// used as a key, then resolves it against the entity's allowed column set.
// Unknown fields fall back to the default sort.
//
// parseSort 在请求的字段名可被用作键之前先剥离其中的标记，然后根据实体
// 允许的列集合解析。未知字段回退到默认排序。
func parseSort(field, order string, allowed map[string]bool, def Sort) Sort {
	field = strings.TrimSpace(sanitize.StripTags(field))
	if field == "" || strings.HasPrefix(field, sanitize.OperatorSentinel) || !allowed[field] {
		field = def.Field
	}
	desc := def.Desc
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc", "1":
		desc = false
	case "desc", "-1":
		desc = true
	}
	return Sort{Field: field, Desc: desc}
}

// addNumberRange adds an inclusive numeric range constraint for field.
// addNumberRange 为field添加一个闭区间数值约束。
func addNumberRange(f Filter, field, from, to string) error {
	r := &Range{}
	if from != "" {
		v, err := strconv.ParseFloat(from, 64)
		if err != nil {
			return errors.Newf(errors.KindBadRequest, "invalid %sFrom value", field)
		}
		r.From = v
	}
	if to != "" {
		v, err := strconv.ParseFloat(to, 64)
		if err != nil {
			return errors.Newf(errors.KindBadRequest, "invalid %sTo value", field)
		}
		r.To = v
	}
	if r.From != nil || r.To != nil {
		f[field] = Cond{Range: r}
	}
	return nil
}

// addDateRange adds an inclusive date range constraint for field. A
// date-only "to" bound is normalized to the end of that calendar day
// (23:59:59.999) so the whole day is included.
//
// addDateRange 为field添加一个闭区间日期约束。仅含日期的"to"边界被
// 规范化为该日历日的结束时刻（23:59:59.999），从而包含整天。
func addDateRange(f Filter, field, from, to string) error {
	r := &Range{}
	if from != "" {
		v, err := parseDate(from, false)
		if err != nil {
			return errors.Newf(errors.KindBadRequest, "invalid %sFrom value", field)
		}
		r.From = v
	}
	if to != "" {
		v, err := parseDate(to, true)
		if err != nil {
			return errors.Newf(errors.KindBadRequest, "invalid %sTo value", field)
		}
		r.To = v
	}
	if r.From != nil || r.To != nil {
		f[field] = Cond{Range: r}
	}
	return nil
}

// parseDate accepts a date-only or an RFC 3339 timestamp. endOfDay applies
// only to date-only inputs: the resulting instant is the last representable
// millisecond of that day.
//
// parseDate 接受仅日期或RFC 3339时间戳。endOfDay仅对仅日期输入生效：
// 结果时刻是该日最后一个可表示的毫秒。
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(dateOnly, s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
