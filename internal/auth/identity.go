// Package auth carries the authenticated identity through the request.
// Authentication itself is handled by an external collaborator in front of
// this backend; here the identity is an explicit context value populated
// once at the edge and read by every component that needs it.
//
// Package auth 在请求中传递已认证身份。认证本身由本后端前面的外部协作者
// 处理；在这里，身份是一个显式的上下文值，在边缘填充一次，
// 由每个需要它的组件读取。
package auth

import (
	"context"

	"github.com/weblarek/backend/internal/model"
)

// Identity is the authenticated requester: their record identity and role.
// Identity 是已认证的请求者：其记录标识和角色。
type Identity struct {
	ID   string
	Role model.Role
}

// IsAdmin reports whether the requester carries the admin role.
// IsAdmin 报告请求者是否携带管理员角色。
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

type contextKey struct{}

// NewContext returns a context carrying the identity.
// NewContext 返回携带身份的上下文。
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity populated at the edge, if any.
// FromContext 提取在边缘填充的身份（如果有）。
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
