package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/handler"
	"github.com/ratbekn/umay/internal/ledger"
)

const (
	ownerHex    = "0xaa00000000000000000000000000000000000001"
	investorHex = "0xaa00000000000000000000000000000000000002"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *ledger.MemoryLedger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l := ledger.NewMemoryLedger()
	l.Mint(common.HexToAddress(investorHex), 50000)

	eng := engine.New(l, engine.Params{
		FeeBps:   250,
		Treasury: common.HexToAddress("0xbb00000000000000000000000000000000000001"),
		Escrow:   common.HexToAddress("0xbb00000000000000000000000000000000000002"),
	})

	r := gin.New()
	projectHandler := handler.NewProjectHandler(eng)
	investHandler := handler.NewInvestHandler(eng)
	settlementHandler := handler.NewSettlementHandler(eng)

	v1 := r.Group("/api/v1")
	projects := v1.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("/:id", projectHandler.GetProject)
	projects.DELETE("/:id", projectHandler.CancelProject)
	projects.GET("/:id/investors/:address", projectHandler.GetInvestorAmount)
	projects.POST("/:id/invest", investHandler.Invest)
	projects.POST("/:id/withdraw", settlementHandler.WithdrawFunds)
	projects.POST("/:id/distribute", settlementHandler.DistributeReturns)

	return r, l
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProjectViaAPI(t *testing.T, r *gin.Engine) uint64 {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"owner":          ownerHex,
		"name":           "Test Project",
		"funding_goal":   10000,
		"min_investment": 100,
		"deadline":       time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			ProjectID uint64 `json:"project_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ProjectID
}

func TestCreateProjectAPI(t *testing.T) {
	r, _ := setupTestRouter(t)

	id := createProjectViaAPI(t, r)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test Project")
}

func TestCreateProjectAPIInvalidParameters(t *testing.T) {
	r, _ := setupTestRouter(t)

	// 过期的截止时间
	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"owner":          ownerHex,
		"name":           "Expired Project",
		"funding_goal":   10000,
		"min_investment": 100,
		"deadline":       time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非法地址
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"owner":          "not-an-address",
		"name":           "Bad Owner",
		"funding_goal":   10000,
		"min_investment": 100,
		"deadline":       time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvestAPI(t *testing.T) {
	r, _ := setupTestRouter(t)
	id := createProjectViaAPI(t, r)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/invest", id), gin.H{
		"investor": investorHex,
		"amount":   1000,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/investors/%s", id, investorHex), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":1000`)
}

func TestInvestAPIErrorMapping(t *testing.T) {
	r, _ := setupTestRouter(t)
	id := createProjectViaAPI(t, r)

	// 低于最小投资额 -> 400
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/invest", id), gin.H{
		"investor": investorHex,
		"amount":   50,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 超过募集目标 -> 400
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/invest", id), gin.H{
		"investor": investorHex,
		"amount":   15000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 项目不存在 -> 404
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/999/invest", gin.H{
		"investor": investorHex,
		"amount":   1000,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithdrawAPI(t *testing.T) {
	r, l := setupTestRouter(t)
	id := createProjectViaAPI(t, r)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/invest", id), gin.H{
		"investor": investorHex,
		"amount":   10000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 非项目方提取 -> 403
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/withdraw", id), gin.H{
		"caller": investorHex,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 项目方提取成功
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/withdraw", id), gin.H{
		"caller": ownerHex,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 重复提取 -> 409
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/withdraw", id), gin.H{
		"caller": ownerHex,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 手续费与净额
	d, err := l.BalanceOf(context.Background(), common.HexToAddress(ownerHex))
	require.NoError(t, err)
	assert.Equal(t, int64(9750), d)
}

func TestCancelAPI(t *testing.T) {
	r, l := setupTestRouter(t)
	id := createProjectViaAPI(t, r)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/invest", id), gin.H{
		"investor": investorHex,
		"amount":   2000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", id), gin.H{
		"caller": ownerHex,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 本金全额退回
	b, err := l.BalanceOf(context.Background(), common.HexToAddress(investorHex))
	require.NoError(t, err)
	assert.Equal(t, int64(50000), b)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), nil)
	assert.Contains(t, w.Body.String(), `"status_name":"cancelled"`)
}
