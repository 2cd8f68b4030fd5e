package handler

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Owner             string `json:"owner" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	Location          string `json:"location"`
	FundingGoal       int64  `json:"funding_goal" binding:"required"`
	MinInvestment     int64  `json:"min_investment" binding:"required"`
	ExpectedReturnBps int64  `json:"expected_return_bps"`
	Deadline          int64  `json:"deadline" binding:"required"` // Unix时间戳（秒）
	Duration          int64  `json:"duration"`
}

// InvestRequest 投资请求
type InvestRequest struct {
	Investor string `json:"investor" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

// WithdrawRequest 提取募集资金请求
type WithdrawRequest struct {
	Caller string `json:"caller" binding:"required"`
}

// DistributeRequest 收益分配请求
type DistributeRequest struct {
	Caller        string `json:"caller" binding:"required"`
	ReturnsAmount int64  `json:"returns_amount" binding:"required"`
}

// CancelRequest 取消项目请求
type CancelRequest struct {
	Caller string `json:"caller" binding:"required"`
}
