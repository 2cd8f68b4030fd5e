package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/ledger"
)

var (
	ownerAddr    = common.HexToAddress("0xaa00000000000000000000000000000000000001")
	investorA    = common.HexToAddress("0xaa00000000000000000000000000000000000002")
	investorB    = common.HexToAddress("0xaa00000000000000000000000000000000000003")
	treasuryAddr = common.HexToAddress("0xbb00000000000000000000000000000000000001")
	escrowAddr   = common.HexToAddress("0xbb00000000000000000000000000000000000002")
)

// testClock 可拨动的测试时钟
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, feeBps int64) (*engine.Engine, *ledger.MemoryLedger, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := ledger.NewMemoryLedger()
	l.Mint(investorA, 50000)
	l.Mint(investorB, 50000)

	eng := engine.New(l, engine.Params{
		FeeBps:   feeBps,
		Treasury: treasuryAddr,
		Escrow:   escrowAddr,
	}, engine.WithClock(clock.Now))

	return eng, l, clock
}

func createTestProject(t *testing.T, eng *engine.Engine, clock *testClock) uint64 {
	t.Helper()

	id, err := eng.CreateProject(engine.CreateParams{
		Owner:             ownerAddr,
		Name:              "Wheat Farming Project",
		Description:       "Growing organic wheat in Issyk-Kul region",
		Location:          "Issyk-Kul, Kyrgyzstan",
		FundingGoal:       10000,
		MinInvestment:     100,
		ExpectedReturnBps: 1500,
		Deadline:          clock.Now().Add(30 * 24 * time.Hour),
		Duration:          90,
	})
	require.NoError(t, err)
	return id
}

func balance(t *testing.T, l *ledger.MemoryLedger, account common.Address) int64 {
	t.Helper()
	b, err := l.BalanceOf(context.Background(), account)
	require.NoError(t, err)
	return b
}

func TestCreateProject(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)

	id := createTestProject(t, eng, clock)
	assert.Equal(t, uint64(0), id)

	// 项目ID递增分配
	id2 := createTestProject(t, eng, clock)
	assert.Equal(t, uint64(1), id2)
	assert.Equal(t, []uint64{0, 1}, eng.GetAllProjectIDs())

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, "Wheat Farming Project", snap.Name)
	assert.Equal(t, ownerAddr, snap.Owner)
	assert.Equal(t, int64(10000), snap.FundingGoal)
	assert.Equal(t, int64(0), snap.TotalFunded)
	assert.Equal(t, engine.StatusPending, snap.Status)
	assert.False(t, snap.FundsWithdrawn)
	assert.Empty(t, snap.Investors)
}

func TestCreateProjectInvalidParameters(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)

	base := engine.CreateParams{
		Owner:         ownerAddr,
		Name:          "Invalid Project",
		FundingGoal:   10000,
		MinInvestment: 100,
		Deadline:      clock.Now().Add(24 * time.Hour),
	}

	cases := []struct {
		name   string
		mutate func(*engine.CreateParams)
	}{
		{"zero funding goal", func(p *engine.CreateParams) { p.FundingGoal = 0 }},
		{"negative funding goal", func(p *engine.CreateParams) { p.FundingGoal = -1 }},
		{"zero min investment", func(p *engine.CreateParams) { p.MinInvestment = 0 }},
		{"past deadline", func(p *engine.CreateParams) { p.Deadline = clock.Now().Add(-24 * time.Hour) }},
		{"deadline now", func(p *engine.CreateParams) { p.Deadline = clock.Now() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := base
			tc.mutate(&params)
			_, err := eng.CreateProject(params)
			assert.ErrorIs(t, err, engine.ErrInvalidParameters)
		})
	}

	// 非法创建不占用项目ID
	assert.Empty(t, eng.GetAllProjectIDs())
}

func TestGetProjectNotFound(t *testing.T) {
	eng, _, _ := newTestEngine(t, 250)

	_, err := eng.GetProject(42)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	_, err = eng.GetInvestorAmount(42, investorA)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	err = eng.Invest(context.Background(), 42, investorA, 1000)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestInvest(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 1000))

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), snap.TotalFunded)
	assert.Equal(t, engine.StatusPending, snap.Status)

	amount, err := eng.GetInvestorAmount(id, investorA)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), amount)

	// 资金进入托管账户
	assert.Equal(t, int64(1000), balance(t, l, escrowAddr))
	assert.Equal(t, int64(49000), balance(t, l, investorA))
}

func TestInvestAccumulates(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	// 任意有效投资序列后 totalFunded 等于已接受投资之和且不超过目标
	amounts := []int64{100, 2500, 400, 1000}
	var sum int64
	for _, amount := range amounts {
		require.NoError(t, eng.Invest(ctx, id, investorA, amount))
		sum += amount

		snap, err := eng.GetProject(id)
		require.NoError(t, err)
		assert.Equal(t, sum, snap.TotalFunded)
		assert.LessOrEqual(t, snap.TotalFunded, snap.FundingGoal)
	}

	// 同一投资人累计记账，只占一个投资人位置
	amount, err := eng.GetInvestorAmount(id, investorA)
	require.NoError(t, err)
	assert.Equal(t, sum, amount)

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{investorA}, snap.Investors)
}

func TestInvestActivatesAtGoal(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 6000))

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusPending, snap.Status)

	// 补足缺口的投资在同一操作内激活项目
	require.NoError(t, eng.Invest(ctx, id, investorB, 4000))

	snap, err = eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusActive, snap.Status)
	assert.Equal(t, int64(10000), snap.TotalFunded)
}

func TestInvestBelowMinimum(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)

	err := eng.Invest(context.Background(), id, investorA, 50)
	assert.ErrorIs(t, err, engine.ErrBelowMinimum)

	// 状态与余额均未变化
	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.TotalFunded)
	assert.Equal(t, int64(50000), balance(t, l, investorA))
	assert.Equal(t, int64(0), balance(t, l, escrowAddr))
}

func TestInvestExceedsGoal(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)

	err := eng.Invest(context.Background(), id, investorA, 15000)
	assert.ErrorIs(t, err, engine.ErrExceedsGoal)

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.TotalFunded)
	assert.Equal(t, int64(50000), balance(t, l, investorA))
}

func TestInvestExceedsRemainingCapacity(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 7000))

	// 剩余额度3000，再投4000超额
	err := eng.Invest(ctx, id, investorB, 4000)
	assert.ErrorIs(t, err, engine.ErrExceedsGoal)

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), snap.TotalFunded)
}

func TestInvestAfterDeadline(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)

	clock.Advance(31 * 24 * time.Hour)

	err := eng.Invest(context.Background(), id, investorA, 1000)
	assert.ErrorIs(t, err, engine.ErrInvalidState)
}

func TestInvestWrongStatus(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 10000))

	// Active状态不再接受投资
	err := eng.Invest(ctx, id, investorB, 100)
	assert.ErrorIs(t, err, engine.ErrInvalidState)
}

func TestInvestTransferFailure(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)

	// 余额不足的投资人
	poor := common.HexToAddress("0xaa00000000000000000000000000000000000099")
	l.Mint(poor, 100)

	err := eng.Invest(context.Background(), id, poor, 500)
	assert.ErrorIs(t, err, engine.ErrTransferFailed)

	// 转账失败不产生任何状态变更
	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.TotalFunded)
	assert.Empty(t, snap.Investors)
	assert.Equal(t, int64(100), balance(t, l, poor))
}

func TestCancelRefundsInvestors(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	// 部分募集后取消：投资与退款构成资金闭环
	require.NoError(t, eng.Invest(ctx, id, investorA, 2000))
	assert.Equal(t, int64(48000), balance(t, l, investorA))

	require.NoError(t, eng.CancelProject(ctx, id, ownerAddr))

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCancelled, snap.Status)
	assert.Equal(t, int64(50000), balance(t, l, investorA))
	assert.Equal(t, int64(0), balance(t, l, escrowAddr))
}

func TestCancelMultipleInvestors(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 3000))
	require.NoError(t, eng.Invest(ctx, id, investorB, 1500))
	require.NoError(t, eng.Invest(ctx, id, investorA, 500))

	require.NoError(t, eng.CancelProject(ctx, id, ownerAddr))

	assert.Equal(t, int64(50000), balance(t, l, investorA))
	assert.Equal(t, int64(50000), balance(t, l, investorB))
}

func TestCancelActiveProject(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 10000))

	// 已激活但未提取，仍可取消
	require.NoError(t, eng.CancelProject(ctx, id, ownerAddr))

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCancelled, snap.Status)
	assert.Equal(t, int64(50000), balance(t, l, investorA))
}

func TestCancelZeroInvestors(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)

	// 空退款循环是合法取消
	require.NoError(t, eng.CancelProject(context.Background(), id, ownerAddr))

	snap, err := eng.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCancelled, snap.Status)
}

func TestCancelUnauthorized(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)

	err := eng.CancelProject(context.Background(), id, investorA)
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
}

func TestCancelAfterWithdraw(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.Invest(ctx, id, investorA, 10000))
	require.NoError(t, eng.WithdrawFunds(ctx, id, ownerAddr))

	err := eng.CancelProject(ctx, id, ownerAddr)
	assert.ErrorIs(t, err, engine.ErrInvalidState)
}

func TestCancelTerminalStates(t *testing.T) {
	eng, _, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	require.NoError(t, eng.CancelProject(ctx, id, ownerAddr))

	// 终态不可再取消
	err := eng.CancelProject(ctx, id, ownerAddr)
	assert.ErrorIs(t, err, engine.ErrInvalidState)
}

func TestConcurrentInvestments(t *testing.T) {
	eng, l, clock := newTestEngine(t, 250)
	id := createTestProject(t, eng, clock)
	ctx := context.Background()

	// 并发投资在同一项目上串行生效，总额守恒
	const workers = 10
	investors := make([]common.Address, workers)
	for i := range investors {
		investors[i] = common.BigToAddress(common.Big1)
		investors[i][19] = byte(0x10 + i)
		l.Mint(investors[i], 1000)
	}

	var wg sync.WaitGroup
	for _, investor := range investors {
		wg.Add(1)
		go func(inv common.Address) {
			defer wg.Done()
			_ = eng.Invest(ctx, id, inv, 1000)
		}(investor)
	}
	wg.Wait()

	snap, err := eng.GetProject(id)
	require.NoError(t, err)

	var sum int64
	for _, amount := range snap.Investments {
		sum += amount
	}
	assert.Equal(t, snap.TotalFunded, sum)
	assert.Equal(t, int64(workers*1000), snap.TotalFunded)
	assert.Equal(t, engine.StatusActive, snap.Status)
	assert.Equal(t, snap.TotalFunded, balance(t, l, escrowAddr))
}
