package xmrpooleu

import "github.com/powerhive/poolwatch/pkg/pool"

// MinerStats is the flat payload of /pool/miner/{wallet}/stats.
// Amounts are in atomic units.
type MinerStats struct {
	Paid          pool.Number `json:"paid"`
	Balance       pool.Number `json:"balance"`
	Hashrate      pool.Number `json:"hashrate"`
	ValidShares   pool.Number `json:"validShares"`
	InvalidShares pool.Number `json:"invalidShares"`
	Hashes        pool.Number `json:"hashes"`
}

// ToStats converts the payload to the pool-agnostic record.
func (m *MinerStats) ToStats() pool.Stats {
	return pool.Stats{
		AmountPaid:    m.Paid.Uint64(),
		AmountDue:     m.Balance.Uint64(),
		Hashrate:      m.Hashrate.Float64(),
		ValidShares:   m.ValidShares.Uint64(),
		InvalidShares: m.InvalidShares.Uint64(),
		TotalHashes:   m.Hashes.Uint64(),
	}
}
