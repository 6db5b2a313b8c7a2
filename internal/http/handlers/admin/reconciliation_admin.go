package admin

import (
	"strings"

	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminListReconciliationIssues 对账记录列表（status / reason 过滤）
func (h *Handler) AdminListReconciliationIssues(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	issues, total, err := h.ReconciliationService.List(repository.ReconciliationListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Reason:   strings.TrimSpace(c.Query("reason")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, issues, handlershared.BuildPagination(page, pageSize, total))
}

// AdminResolveReconciliationIssue 标记对账记录已处理
func (h *Handler) AdminResolveReconciliationIssue(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	issue, err := h.ReconciliationService.Resolve(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, issue)
}
