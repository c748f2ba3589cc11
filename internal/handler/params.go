package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/sanitize"
)

// queryFirewall runs the operator-sentinel firewall over the full query
// string before any parameter is interpreted. Bracketed keys such as
// "filters[$where]" are expanded into nested maps first, so a directive
// smuggled as a path segment is seen as the key it would become after
// nested-parameter decoding, not as an opaque flat string.
//
// queryFirewall 在解释任何参数之前，对完整的查询串运行运算符哨兵防火墙。
// 诸如 "filters[$where]" 的方括号键会先展开为嵌套映射，这样伪装成路径段的
// 指令会以嵌套参数解码后将成为的键的形式被看到，而不是一个不透明的扁平字符串。
func queryFirewall(values url.Values) error {
	_, err := sanitize.CleanParams(expandBrackets(values))
	return err
}

// expandBrackets turns "a[b][c]=v" into {"a": {"b": {"c": v}}}. Repeated
// leaves keep every value.
//
// expandBrackets 将 "a[b][c]=v" 变为 {"a": {"b": {"c": v}}}。
// 重复的叶子保留所有值。
func expandBrackets(values url.Values) map[string]any {
	root := make(map[string]any, len(values))
	for key, vals := range values {
		path := bracketPath(key)
		node := root
		for i, seg := range path {
			last := i == len(path)-1
			if last {
				setLeaf(node, seg, vals)
				break
			}
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
	}
	return root
}

func setLeaf(node map[string]any, seg string, vals []string) {
	if len(vals) == 1 {
		node[seg] = vals[0]
		return
	}
	node[seg] = vals
}

// bracketPath splits "a[b][c]" into ["a", "b", "c"]. Malformed bracketing
// falls back to the raw key so the firewall still inspects it.
//
// bracketPath 将 "a[b][c]" 拆为 ["a", "b", "c"]。
// 括号格式错误时回退为原始键，防火墙仍会检查它。
func bracketPath(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}
	path := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path
}

// pageParam parses a pagination integer, treating absent or malformed values
// as zero so the clamp supplies the default.
//
// pageParam 解析分页整数，缺失或格式错误的值按零处理，由钳位提供默认值。
func pageParam(values url.Values, name string) int64 {
	raw := values.Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// customerListParams normalizes the customer listing query. The raw values
// pass to the builders untouched: the firewall has already rejected sentinel
// payloads, and escaping happens exactly once at the point of use.
//
// customerListParams 规范化顾客列表查询。原始值原样传给构建器：
// 防火墙已经拒绝了哨兵负载，转义只在使用点进行一次。
func customerListParams(values url.Values) query.CustomerListParams {
	return query.CustomerListParams{
		RegistrationDateFrom: values.Get("registrationDateFrom"),
		RegistrationDateTo:   values.Get("registrationDateTo"),
		LastOrderDateFrom:    values.Get("lastOrderDateFrom"),
		LastOrderDateTo:      values.Get("lastOrderDateTo"),
		TotalAmountFrom:      values.Get("totalAmountFrom"),
		TotalAmountTo:        values.Get("totalAmountTo"),
		OrderCountFrom:       values.Get("orderCountFrom"),
		OrderCountTo:         values.Get("orderCountTo"),
		Search:               values.Get("search"),
		SortField:            values.Get("sortField"),
		SortOrder:            values.Get("sortOrder"),
		Page:                 pageParam(values, "page"),
		Limit:                pageParam(values, "limit"),
	}
}

// orderListParams normalizes the order listing query.
// orderListParams 规范化订单列表查询。
func orderListParams(values url.Values) query.OrderListParams {
	return query.OrderListParams{
		Status:          values.Get("status"),
		TotalAmountFrom: values.Get("totalAmountFrom"),
		TotalAmountTo:   values.Get("totalAmountTo"),
		OrderDateFrom:   values.Get("orderDateFrom"),
		OrderDateTo:     values.Get("orderDateTo"),
		Search:          values.Get("search"),
		SortField:       values.Get("sortField"),
		SortOrder:       values.Get("sortOrder"),
		Page:            pageParam(values, "page"),
		Limit:           pageParam(values, "limit"),
	}
}
