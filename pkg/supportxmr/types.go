package supportxmr

import "github.com/powerhive/poolwatch/pkg/pool"

// MinerStats is the payload of /miner/{wallet}/stats.
// Amounts are already in atomic units.
type MinerStats struct {
	AmtPaid       pool.Number `json:"amtPaid"`
	AmtDue        pool.Number `json:"amtDue"`
	Hashrate      pool.Number `json:"hashrate"`
	Hash          pool.Number `json:"hash"`
	ValidShares   pool.Number `json:"validShares"`
	InvalidShares pool.Number `json:"invalidShares"`
	TotalHashes   pool.Number `json:"totalHashes"`
}

// ToStats converts the payload to the pool-agnostic record.
// The API reports hashrate as "hash" on some versions.
func (m *MinerStats) ToStats() pool.Stats {
	hashrate := m.Hashrate
	if hashrate.IsZero() {
		hashrate = m.Hash
	}

	return pool.Stats{
		AmountPaid:    m.AmtPaid.Uint64(),
		AmountDue:     m.AmtDue.Uint64(),
		Hashrate:      hashrate.Float64(),
		ValidShares:   m.ValidShares.Uint64(),
		InvalidShares: m.InvalidShares.Uint64(),
		TotalHashes:   m.TotalHashes.Uint64(),
	}
}
