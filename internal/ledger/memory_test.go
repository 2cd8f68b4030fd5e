package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratbekn/umay/internal/ledger"
)

var (
	alice = common.HexToAddress("0xcc00000000000000000000000000000000000001")
	bob   = common.HexToAddress("0xcc00000000000000000000000000000000000002")
)

func TestMemoryLedgerTransfer(t *testing.T) {
	l := ledger.NewMemoryLedger()
	ctx := context.Background()

	l.Mint(alice, 1000)

	require.NoError(t, l.Transfer(ctx, alice, bob, 400))

	balanceA, err := l.BalanceOf(ctx, alice)
	require.NoError(t, err)
	balanceB, err := l.BalanceOf(ctx, bob)
	require.NoError(t, err)

	assert.Equal(t, int64(600), balanceA)
	assert.Equal(t, int64(400), balanceB)
}

func TestMemoryLedgerInsufficientBalance(t *testing.T) {
	l := ledger.NewMemoryLedger()
	ctx := context.Background()

	l.Mint(alice, 100)

	err := l.Transfer(ctx, alice, bob, 101)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	// 转账失败不改变余额
	balanceA, _ := l.BalanceOf(ctx, alice)
	balanceB, _ := l.BalanceOf(ctx, bob)
	assert.Equal(t, int64(100), balanceA)
	assert.Equal(t, int64(0), balanceB)
}

func TestMemoryLedgerNegativeAmount(t *testing.T) {
	l := ledger.NewMemoryLedger()

	err := l.Transfer(context.Background(), alice, bob, -1)
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestMemoryLedgerZeroTransfer(t *testing.T) {
	l := ledger.NewMemoryLedger()

	// 零额转账合法，等价于空操作
	require.NoError(t, l.Transfer(context.Background(), alice, bob, 0))
}

func TestMemoryLedgerConcurrentTransfers(t *testing.T) {
	l := ledger.NewMemoryLedger()
	ctx := context.Background()

	l.Mint(alice, 10000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Transfer(ctx, alice, bob, 100)
		}()
	}
	wg.Wait()

	// 总量守恒
	balanceA, _ := l.BalanceOf(ctx, alice)
	balanceB, _ := l.BalanceOf(ctx, bob)
	assert.Equal(t, int64(10000), balanceA+balanceB)
	assert.Equal(t, int64(0), balanceA)
}
