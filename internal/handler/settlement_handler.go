package handler

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/ratbekn/umay/internal/engine"
)

type SettlementHandler struct {
	engine *engine.Engine
}

func NewSettlementHandler(eng *engine.Engine) *SettlementHandler {
	return &SettlementHandler{engine: eng}
}

// WithdrawFunds 项目方提取募集资金
func (h *SettlementHandler) WithdrawFunds(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Caller) {
		ErrorResponse(c, http.StatusBadRequest, "无效的调用方地址")
		return
	}

	if err := h.engine.WithdrawFunds(c.Request.Context(), id, common.HexToAddress(req.Caller)); err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "募集资金提取成功", nil)
}

// DistributeReturns 项目方分配收益
func (h *SettlementHandler) DistributeReturns(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Caller) {
		ErrorResponse(c, http.StatusBadRequest, "无效的调用方地址")
		return
	}

	if err := h.engine.DistributeReturns(c.Request.Context(), id, common.HexToAddress(req.Caller), req.ReturnsAmount); err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "收益分配完成", nil)
}
