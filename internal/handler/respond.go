package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weblarek/backend/pkg/errors"
)

// statusOf maps an error kind to its HTTP status.
// statusOf 将错误kind映射到其HTTP状态码。
func statusOf(kind errors.Kind) int {
	switch kind {
	case errors.KindBadRequest:
		return http.StatusBadRequest
	case errors.KindUnauthorized:
		return http.StatusUnauthorized
	case errors.KindForbidden:
		return http.StatusForbidden
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the uniform error envelope. Internal causes are logged, never
// serialized: the client only ever sees the kind and a safe message.
//
// fail 写入统一的错误信封。内部原因只记录日志，从不序列化：
// 客户端只会看到kind和一条安全的消息。
func (h *Handler) fail(c *gin.Context, err error) {
	kind := errors.KindOf(err)
	message := "internal error"
	var appErr *errors.Error
	if stderrors.As(err, &appErr) && kind != errors.KindInternal {
		message = appErr.Message
	}
	if kind == errors.KindInternal {
		h.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(statusOf(kind), gin.H{
		"error": gin.H{
			"kind":    string(kind),
			"message": message,
		},
	})
}

// badRequest is a shortcut for validation failures raised in the handlers.
// badRequest 是处理器内校验失败的快捷方式。
func (h *Handler) badRequest(c *gin.Context, message string) {
	h.fail(c, errors.BadRequest(message))
}
