// Package middleware provides the gin middleware chain: request logging,
// panic recovery and identity extraction. Authentication is performed by an
// external collaborator in front of this backend, which forwards the verified
// identity in trusted headers; here those headers only get parsed and
// attached to the request context.
//
// Package middleware 提供gin中间件链：请求日志、panic恢复和身份提取。
// 认证由本后端前面的外部协作者执行，它通过可信头转发已验证的身份；
// 这里只解析这些头并将其附加到请求上下文。
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/auth"
	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/pkg/errors"
)

const (
	// HeaderUserID and HeaderUserRole carry the identity verified upstream.
	// HeaderUserID 和 HeaderUserRole 携带上游已验证的身份。
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"

	headerRequestID = "X-Request-Id"
)

// RequestLogger logs one line per request with a correlating request id.
// An id supplied by the caller is kept; otherwise one is generated.
//
// RequestLogger 为每个请求记录一行日志，并带有关联的请求id。
// 调用方提供的id会被保留；否则生成一个。
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		c.Next()

		log.Info("request",
			zap.String("id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Recovery converts a handler panic into a 500 with the uniform error shape,
// keeping the connection and the process alive.
//
// Recovery 将处理器panic转换为携带统一错误形状的500，保持连接与进程存活。
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"kind":    string(errors.KindInternal),
						"message": "internal error",
					},
				})
			}
		}()
		c.Next()
	}
}

// Identity parses the trusted identity headers into an auth.Identity and
// attaches it to both the gin context and the request context. Requests
// without the headers pass through anonymous; the per-route guards decide
// whether that is acceptable.
//
// Identity 将可信身份头解析为auth.Identity，并附加到gin上下文和请求上下文。
// 没有这些头的请求以匿名身份通过；是否可接受由各路由的守卫决定。
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderUserID)
		if id == "" {
			c.Next()
			return
		}
		role := model.Role(c.GetHeader(HeaderUserRole))
		if role != model.RoleAdmin {
			role = model.RoleCustomer
		}
		who := auth.Identity{ID: id, Role: role}
		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), who))
		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401.
// RequireAuth 以401中止匿名请求。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.FromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"kind":    string(errors.KindUnauthorized),
					"message": "authentication required",
				},
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts non-admin requests with 403.
// RequireAdmin 以403中止非管理员请求。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := auth.FromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"kind":    string(errors.KindUnauthorized),
					"message": "authentication required",
				},
			})
			return
		}
		if !who.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"kind":    string(errors.KindForbidden),
					"message": "admin role required",
				},
			})
			return
		}
		c.Next()
	}
}
