package public

import (
	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 网关转发的用户侧接口处理器（customer / biller 及组合段）
type Handler struct {
	*provider.Container
}

// New 创建用户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}
