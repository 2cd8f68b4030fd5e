package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/ratbekn/umay/internal/engine"
)

type ProjectHandler struct {
	engine *engine.Engine
}

func NewProjectHandler(eng *engine.Engine) *ProjectHandler {
	return &ProjectHandler{engine: eng}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if !common.IsHexAddress(req.Owner) {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目方地址")
		return
	}

	id, err := h.engine.CreateProject(engine.CreateParams{
		Owner:             common.HexToAddress(req.Owner),
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		FundingGoal:       req.FundingGoal,
		MinInvestment:     req.MinInvestment,
		ExpectedReturnBps: req.ExpectedReturnBps,
		Deadline:          time.Unix(req.Deadline, 0),
		Duration:          req.Duration,
	})
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", gin.H{"project_id": id})
}

// GetProject 获取单个项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	snapshot, err := h.engine.GetProject(id)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", snapshot)
}

// GetProjectIDs 获取全部项目ID
func (h *ProjectHandler) GetProjectIDs(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "", gin.H{"project_ids": h.engine.GetAllProjectIDs()})
}

// GetInvestorAmount 获取投资人在项目中的累计投资额
func (h *ProjectHandler) GetInvestorAmount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	address := c.Param("address")
	if !common.IsHexAddress(address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的投资人地址")
		return
	}

	amount, err := h.engine.GetInvestorAmount(id, common.HexToAddress(address))
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"project_id": id,
		"address":    address,
		"amount":     amount,
	})
}

// CancelProject 取消项目并退款
func (h *ProjectHandler) CancelProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Caller) {
		ErrorResponse(c, http.StatusBadRequest, "无效的调用方地址")
		return
	}

	if err := h.engine.CancelProject(c.Request.Context(), id, common.HexToAddress(req.Caller)); err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目已取消，本金已退回", nil)
}
