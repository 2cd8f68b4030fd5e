package handler

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/ratbekn/umay/internal/engine"
)

type InvestHandler struct {
	engine *engine.Engine
}

func NewInvestHandler(eng *engine.Engine) *InvestHandler {
	return &InvestHandler{engine: eng}
}

// Invest 投资项目
func (h *InvestHandler) Invest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Investor) {
		ErrorResponse(c, http.StatusBadRequest, "无效的投资人地址")
		return
	}

	if err := h.engine.Invest(c.Request.Context(), id, common.HexToAddress(req.Investor), req.Amount); err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投资成功", nil)
}
