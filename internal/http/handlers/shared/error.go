package shared

import (
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/i18n"
	"github.com/checkout-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，data.error_key 携带消息键供调用方还原错误分类。
func RespondError(c *gin.Context, code int, key string, err error) {
	respondErrorWithCause(c, code, key, err, "")
}

// respondErrorWithCause 在 data.cause_key 中附带被包裹的业务错误键
func respondErrorWithCause(c *gin.Context, code int, key string, err error, cause string) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	data := gin.H{"error_key": key}
	if cause != "" {
		data["cause_key"] = cause
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, data)
}
