// Package sanitize implements the sanitization pipeline for untrusted input
// and outbound records: an operator firewall over free-form parameters, an
// allow-list markup sanitizer, and the output pass applied to every record
// before serialization.
//
// Package sanitize 实现针对不可信输入和出站记录的清理管道：
// 针对自由格式参数的操作符防火墙、允许列表式标记清理器，
// 以及在序列化之前应用于每条记录的输出清理。
package sanitize

import (
	"regexp"
	"strings"

	"github.com/weblarek/backend/pkg/errors"
)

// OperatorSentinel is the leading character that a query/aggregation engine
// would interpret as a control directive rather than literal data.
//
// OperatorSentinel 是查询/聚合引擎会解释为控制指令而非字面数据的前导字符。
const OperatorSentinel = "$"

// quoteEscaper escapes quote characters after regex metacharacters have
// already been neutralized by regexp.QuoteMeta.
// quoteEscaper 在regexp.QuoteMeta已经中和正则元字符之后转义引号字符。
var quoteEscaper = strings.NewReplacer(`"`, `\"`, `'`, `\'`)

// EscapeRegex escapes every regex metacharacter in term so it can be used
// for safe substring matching.
//
// EscapeRegex 转义term中的所有正则元字符，以便用于安全的子串匹配。
func EscapeRegex(term string) string {
	return regexp.QuoteMeta(term)
}

// CleanString validates and escapes a single user-supplied string value.
// It fails when the value begins with the operator sentinel and otherwise
// returns the value with regex metacharacters and quotes escaped.
//
// CleanString 校验并转义单个用户提供的字符串值。
// 当值以操作符哨兵开头时失败，否则返回转义了正则元字符和引号的值。
func CleanString(s string) (string, error) {
	if strings.HasPrefix(s, OperatorSentinel) {
		return "", errors.BadRequest("parameter value contains a forbidden operator")
	}
	return quoteEscaper.Replace(regexp.QuoteMeta(s)), nil
}

// CleanParams returns a sanitized copy of an arbitrary parameter mapping.
// String values are escaped, nested mappings and slices are sanitized
// recursively, and any string key or string value that begins with the
// operator sentinel fails the whole request. The input is never mutated.
//
// CleanParams 返回任意参数映射的已清理副本。字符串值被转义，
// 嵌套映射和切片被递归清理，任何以操作符哨兵开头的字符串键或字符串值
// 都会使整个请求失败。输入永远不会被修改。
func CleanParams(params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for key, value := range params {
		if strings.HasPrefix(key, OperatorSentinel) {
			return nil, errors.BadRequest("parameter name contains a forbidden operator")
		}
		clean, err := cleanValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = clean
	}
	return out, nil
}

// cleanValue sanitizes a single value of arbitrary shape.
// cleanValue 清理任意形状的单个值。
func cleanValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return CleanString(v)
	case map[string]any:
		return CleanParams(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			clean, err := cleanValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = clean
		}
		return out, nil
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			clean, err := CleanString(item)
			if err != nil {
				return nil, err
			}
			out[i] = clean
		}
		return out, nil
	default:
		// Non-string scalars carry no operator payload.
		// 非字符串标量不携带操作符负载。
		return value, nil
	}
}

// Walk traverses an arbitrarily nested value (maps, slices, strings) and
// invokes onKey for every mapping key and onString for every string value.
// It is the traversal shared by the input firewall and the aggregation
// sanitizer; the two differ only in the checks they plug in.
//
// Walk 遍历任意嵌套的值（映射、切片、字符串），对每个映射键调用onKey，
// 对每个字符串值调用onString。它是输入防火墙与聚合清理器共享的遍历逻辑；
// 两者只在插入的检查上不同。
func Walk(value any, onKey, onString func(string) error) error {
	switch v := value.(type) {
	case string:
		return onString(v)
	case map[string]any:
		for key, item := range v {
			if err := onKey(key); err != nil {
				return err
			}
			if err := Walk(item, onKey, onString); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if err := Walk(item, onKey, onString); err != nil {
				return err
			}
		}
	case []string:
		for _, item := range v {
			if err := onString(item); err != nil {
				return err
			}
		}
	}
	return nil
}
