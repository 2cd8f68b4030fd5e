package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC20代币ABI定义（简化版，只包含引擎用到的方法）
const erc20ABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "value", "type": "uint256"}
		],
		"name": "transferFrom",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// ERC20Ledger 链上账本，通过稳定币合约的 transferFrom 完成转账。
// 投资人和项目方需要预先 approve 托管账户。
type ERC20Ledger struct {
	client        *ethclient.Client
	privateKey    *ecdsa.PrivateKey
	chainID       *big.Int
	token         *bind.BoundContract
	tokenAddr     common.Address
	confirmations int
}

// ERC20Config 链上账本配置
type ERC20Config struct {
	RpcUrl        string
	PrivateKey    string
	TokenAddress  string
	Confirmations int
}

// NewERC20Ledger 创建链上账本
func NewERC20Ledger(cfg ERC20Config) (*ERC20Ledger, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	// 获取链ID
	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	tokenAddr := common.HexToAddress(cfg.TokenAddress)
	token := bind.NewBoundContract(tokenAddr, parsedABI, client, client, client)

	return &ERC20Ledger{
		client:        client,
		privateKey:    privateKey,
		chainID:       chainID,
		token:         token,
		tokenAddr:     tokenAddr,
		confirmations: cfg.Confirmations,
	}, nil
}

// Transfer 实现 Ledger 接口，调用代币合约的 transferFrom
func (l *ERC20Ledger) Transfer(ctx context.Context, from, to common.Address, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	auth, err := bind.NewKeyedTransactorWithChainID(l.privateKey, l.chainID)
	if err != nil {
		return fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx

	tx, err := l.token.Transact(auth, "transferFrom", from, to, big.NewInt(amount))
	if err != nil {
		return fmt.Errorf("transferFrom failed: %w", err)
	}

	// 等待交易确认
	if err := l.waitConfirmed(ctx, tx.Hash()); err != nil {
		return fmt.Errorf("transfer not confirmed: %w", err)
	}

	return nil
}

// BalanceOf 实现 Ledger 接口
func (l *ERC20Ledger) BalanceOf(ctx context.Context, account common.Address) (int64, error) {
	var out []interface{}
	if err := l.token.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account); err != nil {
		return 0, fmt.Errorf("balanceOf failed: %w", err)
	}

	balance := out[0].(*big.Int)
	if !balance.IsInt64() {
		return 0, fmt.Errorf("balance out of int64 range: %s", balance)
	}
	return balance.Int64(), nil
}

// waitConfirmed 等待交易达到配置的确认数
func (l *ERC20Ledger) waitConfirmed(ctx context.Context, txHash common.Hash) error {
	for {
		receipt, err := l.client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			latest, err := l.client.BlockNumber(ctx)
			if err != nil {
				return err
			}
			if latest >= receipt.BlockNumber.Uint64()+uint64(l.confirmations) {
				if receipt.Status == 0 {
					return fmt.Errorf("transaction %s reverted", txHash.Hex())
				}
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second * 3):
		}
	}
}

// EscrowAddress 托管账户地址（由私钥推导）
func (l *ERC20Ledger) EscrowAddress() common.Address {
	return crypto.PubkeyToAddress(l.privateKey.PublicKey)
}
