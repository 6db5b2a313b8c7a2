package router

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/checkout-next/internal/authz"
	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"Content-Type", "Authorization", constants.HeaderUserID, constants.HeaderRole}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials); allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if userID, ok := c.Get(shared.ContextUserID); ok {
			entry = entry.With("user_id", userID)
		}
		if len(c.Errors) > 0 {
			entry.Errorw("request", "errors", c.Errors.String())
			return
		}
		entry.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// IdentityMiddleware 解析调用方身份
// 优先校验 Bearer 令牌，未携带时按配置信任网关注入的 X-UserId / X-Role
func IdentityMiddleware(cfg config.GatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := strings.TrimSpace(c.GetHeader("Authorization")); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				abortWithError(c, response.CodeUnauthorized, "error.auth_header_invalid")
				return
			}
			claims, err := service.ParseIdentityToken(cfg.JWTSecret, strings.TrimSpace(parts[1]))
			if err != nil {
				shared.RequestLog(c).Warnw("identity_token_rejected", "error", err)
				abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
				return
			}
			setIdentity(c, claims.UserID, claims.Role)
			c.Next()
			return
		}

		if !cfg.TrustIdentityHeaders {
			abortWithError(c, response.CodeUnauthorized, "error.identity_missing")
			return
		}
		rawUserID := strings.TrimSpace(c.GetHeader(constants.HeaderUserID))
		role := strings.TrimSpace(c.GetHeader(constants.HeaderRole))
		if rawUserID == "" || role == "" {
			abortWithError(c, response.CodeUnauthorized, "error.identity_missing")
			return
		}
		userID, err := strconv.ParseUint(rawUserID, 10, 64)
		if err != nil || userID == 0 {
			abortWithError(c, response.CodeBadRequest, "error.user_id_invalid")
			return
		}
		setIdentity(c, uint(userID), role)
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID uint, role string) {
	c.Set(shared.ContextUserID, userID)
	c.Set(shared.ContextUserRole, strings.ToUpper(strings.TrimSpace(role)))
}

// RoleGateMiddleware 按路径前缀与角色做访问控制
func RoleGateMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("role_gate_service_unavailable")
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}
		role := shared.GetUserRole(c)
		if role == "" {
			abortWithError(c, response.CodeUnauthorized, "error.identity_missing")
			return
		}

		allowed, err := authzService.EnforceRole(role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			shared.RequestLog(c).Errorw("role_gate_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}
		if !allowed {
			shared.RequestLog(c).Warnw("role_gate_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(c.Request.URL.Path),
			)
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}

// InternalTokenMiddleware 服务间调用令牌校验（令牌为空时放行）
func InternalTokenMiddleware(token string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(token))
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.Next()
			return
		}
		provided := []byte(strings.TrimSpace(c.GetHeader(constants.HeaderInternalToken)))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			abortWithError(c, response.CodeUnauthorized, "error.internal_token")
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, code int, key string) {
	shared.RespondError(c, code, key, nil)
	c.Abort()
}
