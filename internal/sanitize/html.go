package sanitize

import "github.com/microcosm-cc/bluemonday"

// markupPolicy is the allow-list applied to every markup-bearing field.
// Only paragraphs and anchors survive; anchors may carry an href with a
// parseable http/https/mailto URL and are forced to safe rel attributes
// (nofollow + noreferrer, plus noopener on fully qualified links). The
// content of script/style and similar elements is dropped entirely.
//
// markupPolicy 是应用于每个可能携带标记字段的允许列表。
// 只有段落和锚点被保留；锚点可以携带可解析的http/https/mailto链接，
// 并被强制加上安全的rel属性（nofollow + noreferrer，完全限定链接还有noopener）。
// script/style等元素的内容会被完全丢弃。
var markupPolicy = newMarkupPolicy()

func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// strictPolicy removes every tag; used where no markup at all is acceptable,
// e.g. sort keys about to be used as field names.
// strictPolicy 移除所有标签；用于完全不接受标记的地方，例如将用作字段名的排序键。
var strictPolicy = bluemonday.StrictPolicy()

// CleanHTML sanitizes a markup-bearing string against the allow-list policy.
// The function is idempotent: applying it twice yields the same output as
// applying it once.
//
// CleanHTML 按允许列表策略清理可能携带标记的字符串。
// 该函数是幂等的：应用两次与应用一次产生相同的输出。
func CleanHTML(s string) string {
	return markupPolicy.Sanitize(s)
}

// StripTags removes all markup from s, keeping only text content.
// StripTags 移除s中的所有标记，只保留文本内容。
func StripTags(s string) string {
	return strictPolicy.Sanitize(s)
}
