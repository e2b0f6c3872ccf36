package nanopool

import "github.com/powerhive/poolwatch/pkg/pool"

// Envelope wraps every Nanopool API response.
type Envelope struct {
	Status bool      `json:"status"`
	Error  string    `json:"error,omitempty"`
	Data   *UserData `json:"data"`
}

// UserData is the payload of /user/{wallet}.
// Paid and Balance are in whole XMR.
type UserData struct {
	Account     string      `json:"account"`
	Paid        pool.Number `json:"paid"`
	Balance     pool.Number `json:"balance"`
	Hashrate    pool.Number `json:"hashrate"`
	TotalHashes pool.Number `json:"totalHashes"`
	Workers     []Worker    `json:"workers"`
}

// Worker contains per-worker share counters.
type Worker struct {
	ID            string      `json:"id"`
	Hashrate      pool.Number `json:"hashrate"`
	ValidShares   pool.Number `json:"validShares"`
	InvalidShares pool.Number `json:"invalidShares"`
}

// ToStats converts the payload to the pool-agnostic record, summing shares
// across workers.
func (d *UserData) ToStats() pool.Stats {
	if d == nil {
		return pool.Stats{}
	}

	var valid, invalid uint64
	for _, w := range d.Workers {
		valid += w.ValidShares.Uint64()
		invalid += w.InvalidShares.Uint64()
	}

	return pool.Stats{
		AmountPaid:    d.Paid.Atomic(),
		AmountDue:     d.Balance.Atomic(),
		Hashrate:      d.Hashrate.Float64(),
		ValidShares:   valid,
		InvalidShares: invalid,
		TotalHashes:   d.TotalHashes.Uint64(),
	}
}
