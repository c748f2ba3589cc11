// Package errors provides standardized error types for the API.
// It defines the error taxonomy exposed to clients (a stable kind plus a
// human-readable message), error wrapping, and helper functions for error
// checking across the request pipeline.
//
// Package errors 提供API的标准化错误类型。
// 它定义了暴露给客户端的错误分类（稳定的kind加上可读的消息）、
// 错误包装以及在请求管道中进行错误检查的辅助函数。
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
// Kind 为HTTP边界对错误进行分类。
type Kind string

// The set of error kinds returned to clients.
// These are stable identifiers; the message may change, the kind may not.
//
// 返回给客户端的错误种类集合。
// 这些是稳定的标识符；消息可以变化，kind不可以。
const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Standard errors that can be returned by the core components.
// These provide consistent error values across the pipeline.
//
// 核心组件可能返回的标准错误。
// 这些提供了管道中一致的错误值。
var (
	// ErrNotFound is returned when a record does not exist, or exists but is
	// outside the requester's visibility scope. The two cases are deliberately
	// indistinguishable.
	// 当记录不存在，或存在但超出请求者可见范围时返回ErrNotFound。
	// 这两种情况故意不可区分。
	ErrNotFound = New(KindNotFound, "not found")

	// ErrUnauthorized is returned when no authenticated identity is attached
	// to the request.
	// 当请求未附带已认证身份时返回ErrUnauthorized。
	ErrUnauthorized = New(KindUnauthorized, "authorization required")

	// ErrForbidden is returned by role gates on admin-only routes.
	// 管理员专用路由的角色检查返回ErrForbidden。
	ErrForbidden = New(KindForbidden, "access denied")
)

// Error is an error carrying a client-facing kind and message.
// It optionally wraps an underlying cause which is never serialized
// to the client.
//
// Error 是携带面向客户端的kind和消息的错误。
// 它可以包装一个底层原因，该原因绝不会序列化给客户端。
type Error struct {
	Kind    Kind   // Stable classification / 稳定的分类
	Message string // Human-readable message, safe for clients / 可读的、对客户端安全的消息
	Err     error  // Underlying cause, server-side only / 底层原因，仅服务端可见
}

// Error returns the error message. It implements the error interface.
// Error 返回错误消息。它实现了error接口。
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
// This allows errors.Is and errors.As to work with wrapped errors.
//
// Unwrap 返回底层错误。
// 这允许errors.Is和errors.As与包装的错误一起工作。
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. Two errors of
// the same kind compare equal regardless of message, so sentinel values
// like ErrNotFound match every NotFound error.
//
// Is 报告target是否为相同kind的*Error。相同kind的两个错误无论消息如何
// 都视为相等，因此像ErrNotFound这样的哨兵值匹配所有NotFound错误。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error with a kind and a client-facing message.
// New 使用kind和面向客户端的消息创建一个Error。
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted client-facing message.
// Newf 使用格式化的面向客户端的消息创建一个Error。
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// BadRequest creates a BadRequest error with the given message.
// BadRequest 使用给定消息创建BadRequest错误。
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// NotFound creates a NotFound error for the named entity.
// NotFound 为指定实体创建NotFound错误。
func NotFound(entity string) *Error {
	return Newf(KindNotFound, "%s not found", entity)
}

// Internal wraps an unclassified error. The client message is generic;
// the cause is preserved for server-side logging only.
//
// Internal 包装未分类的错误。客户端消息是通用的；
// 原因仅保留用于服务端日志。
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// Wrap attaches a cause to a kind and client-facing message.
// Wrap 将底层原因附加到kind和面向客户端的消息上。
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error,
// and KindInternal otherwise.
//
// KindOf 返回err的kind（当它是或包装了*Error时），否则返回KindInternal。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsBadRequest returns true if the error classifies as BadRequest.
// IsBadRequest 如果错误分类为BadRequest则返回true。
func IsBadRequest(err error) bool {
	return KindOf(err) == KindBadRequest
}

// IsNotFound returns true if the error classifies as NotFound.
// IsNotFound 如果错误分类为NotFound则返回true。
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
