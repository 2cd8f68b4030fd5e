package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ratbekn/umay/internal/logic"
	"gorm.io/gorm"
)

// RecordHandler 审计记录查询
type RecordHandler struct {
	projectLogic    *logic.ProjectLogic
	investmentLogic *logic.InvestmentLogic
	eventLogic      *logic.EventLogic
	settlementLogic *logic.SettlementLogic
}

func NewRecordHandler(db *gorm.DB) *RecordHandler {
	return &RecordHandler{
		projectLogic:    logic.NewProjectLogic(db),
		investmentLogic: logic.NewInvestmentLogic(db),
		eventLogic:      logic.NewEventLogic(db),
		settlementLogic: logic.NewSettlementLogic(db),
	}
}

// GetProjects 获取项目审计列表
func (h *RecordHandler) GetProjects(c *gin.Context) {
	status := c.Query("status")
	owner := c.Query("owner")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(status, owner, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProjectInvestments 获取项目投资记录
func (h *RecordHandler) GetProjectInvestments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	investments, total, err := h.investmentLogic.GetProjectInvestments(id, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"investments": investments,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
	})
}

// GetProjectEvents 获取项目事件记录
func (h *RecordHandler) GetProjectEvents(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	eventType := c.Query("type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	events, total, err := h.eventLogic.GetEvents(id, eventType, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"events":    events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProjectSettlements 获取项目结算记录
func (h *RecordHandler) GetProjectSettlements(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	records, err := h.settlementLogic.GetProjectSettlements(id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"settlements": records})
}

// GetProjectStats 获取项目统计信息
func (h *RecordHandler) GetProjectStats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	stats, err := h.projectLogic.GetProjectStats(id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}
