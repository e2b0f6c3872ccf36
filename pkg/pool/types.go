package pool

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// AtomicUnitsPerCoin is the number of atomic units in one XMR.
const AtomicUnitsPerCoin = 1_000_000_000_000

// atomicExp is the decimal exponent of one atomic unit.
const atomicExp = -12

// Stats contains a wallet's statistics as reported by a pool.
// This is a pool-agnostic representation; every field is zero when the
// backend omits it.
type Stats struct {
	// AmountPaid is the total paid out to the wallet, in atomic units.
	AmountPaid uint64

	// AmountDue is the pending balance, in atomic units.
	AmountDue uint64

	// Hashrate is the current hashrate in H/s.
	Hashrate float64

	// ValidShares is the number of accepted shares.
	ValidShares uint64

	// InvalidShares is the number of rejected shares.
	InvalidShares uint64

	// TotalHashes is the cumulative number of hashes submitted.
	TotalHashes uint64
}

// IsZero reports whether s is the not-found record.
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// PaidCoins returns AmountPaid in whole coins.
func (s Stats) PaidCoins() decimal.Decimal {
	return AtomicToCoins(s.AmountPaid)
}

// DueCoins returns AmountDue in whole coins.
func (s Stats) DueCoins() decimal.Decimal {
	return AtomicToCoins(s.AmountDue)
}

// AtomicToCoins converts atomic units to coins without rounding.
func AtomicToCoins(atomic uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(atomic), atomicExp)
}

// CoinsToAtomic converts a coin amount to atomic units, truncating any
// fraction below one atomic unit. Negative amounts clamp to zero.
func CoinsToAtomic(coins decimal.Decimal) uint64 {
	return clampUint64(coins.Shift(-atomicExp))
}

func clampUint64(d decimal.Decimal) uint64 {
	d = d.Floor()
	if !d.IsPositive() {
		return 0
	}
	if !d.BigInt().IsUint64() {
		return ^uint64(0)
	}
	return d.BigInt().Uint64()
}
