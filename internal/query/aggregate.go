package query

import (
	"strings"

	"github.com/weblarek/backend/internal/sanitize"
	"github.com/weblarek/backend/pkg/errors"
)

// aggregationDenied lists the expression-evaluation and function-invocation
// directives that must never reach the aggregation entry point, at any
// nesting depth. The aggregation grammar is a strict superset of the filter
// grammar, so this denylist is independent of (and larger than) the input
// firewall's plain sentinel check.
//
// aggregationDenied 列出在任何嵌套深度都绝不能到达聚合入口的表达式求值
// 和函数调用指令。聚合语法是过滤语法的严格超集，因此该拒绝列表独立于
// （并大于）输入防火墙的简单哨兵检查。
var aggregationDenied = []string{"$where", "$function", "$accumulator", "$expr"}

// SanitizeAggregate re-validates a constructed Filter before it is used to
// parameterize a multi-stage aggregation pipeline. It is a second,
// independent pass: the filter may already have been built from sanitized
// input, but the aggregation entry point is a larger attack surface and is
// guarded on its own.
//
// SanitizeAggregate 在构建的Filter被用于参数化多阶段聚合管道之前对其重新
// 校验。这是第二次独立的检查：过滤器可能已经由清理过的输入构建，
// 但聚合入口是更大的攻击面，需要单独防护。
func SanitizeAggregate(f Filter) error {
	for field, cond := range f {
		if err := aggregateKeyCheck(field); err != nil {
			return err
		}
		for _, v := range []any{cond.Eq, rangeFrom(cond), rangeTo(cond), cond.In} {
			if v == nil {
				continue
			}
			if err := sanitize.Walk(v, aggregateKeyCheck, aggregateValueCheck); err != nil {
				return err
			}
		}
	}
	return nil
}

func rangeFrom(c Cond) any {
	if c.Range == nil {
		return nil
	}
	return c.Range.From
}

func rangeTo(c Cond) any {
	if c.Range == nil {
		return nil
	}
	return c.Range.To
}

// aggregateKeyCheck rejects operator-sentinel keys and denied directives.
// aggregateKeyCheck 拒绝操作符哨兵键和被拒指令。
func aggregateKeyCheck(key string) error {
	if strings.HasPrefix(key, sanitize.OperatorSentinel) {
		return errors.BadRequest("aggregation filter contains a forbidden operator")
	}
	return deniedDirectiveCheck(key)
}

// aggregateValueCheck rejects sentinel-prefixed string values and values
// smuggling a denied directive.
// aggregateValueCheck 拒绝以哨兵为前缀的字符串值以及夹带被拒指令的值。
func aggregateValueCheck(value string) error {
	if strings.HasPrefix(value, sanitize.OperatorSentinel) {
		return errors.BadRequest("aggregation filter contains a forbidden operator value")
	}
	return deniedDirectiveCheck(value)
}

func deniedDirectiveCheck(s string) error {
	lower := strings.ToLower(s)
	for _, directive := range aggregationDenied {
		if strings.Contains(lower, directive) {
			return errors.Newf(errors.KindBadRequest, "aggregation filter contains the %s directive", directive)
		}
	}
	return nil
}
