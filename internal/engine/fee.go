package engine

import "math/big"

var bpsDenominator = big.NewInt(10000)

// PlatformFee 计算平台手续费: floor(amount * bps / 10000)。
// 乘积通过 big.Int 计算，amount 与 bps 的乘积不会在除法前溢出。
func PlatformFee(amount, bps int64) int64 {
	fee := new(big.Int).Mul(big.NewInt(amount), big.NewInt(bps))
	fee.Quo(fee, bpsDenominator)
	return fee.Int64()
}

// proRataShare 计算按比例分成: floor(returns * stake / total)
func proRataShare(returns, stake, total int64) int64 {
	share := new(big.Int).Mul(big.NewInt(returns), big.NewInt(stake))
	share.Quo(share, big.NewInt(total))
	return share.Int64()
}
