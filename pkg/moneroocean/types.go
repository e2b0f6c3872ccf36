package moneroocean

import "github.com/powerhive/poolwatch/pkg/pool"

// WorkerStats is the payload of /miner/{wallet}/stats/allWorkers as the
// dashboard consumes it. Amounts are in atomic units.
type WorkerStats struct {
	Due           pool.Number `json:"due"`
	Hash          pool.Number `json:"hash"`
	ValidShares   pool.Number `json:"validShares"`
	InvalidShares pool.Number `json:"invalidShares"`
	Hashes        pool.Number `json:"hashes"`
}

// Payment is one entry of /miner/{wallet}/payments.
type Payment struct {
	Amount  pool.Number `json:"amount"`
	TxnHash string      `json:"txnHash,omitempty"`
	TS      pool.Number `json:"ts"`
}

// TotalPaid sums payment amounts exactly.
func TotalPaid(payments []Payment) pool.Number {
	amounts := make([]pool.Number, 0, len(payments))
	for _, p := range payments {
		amounts = append(amounts, p.Amount)
	}
	return pool.Sum(amounts...)
}

// toStats merges live stats with payment history.
func toStats(stats *WorkerStats, payments []Payment) pool.Stats {
	if stats == nil {
		stats = &WorkerStats{}
	}
	return pool.Stats{
		AmountPaid:    TotalPaid(payments).Uint64(),
		AmountDue:     stats.Due.Uint64(),
		Hashrate:      stats.Hash.Float64(),
		ValidShares:   stats.ValidShares.Uint64(),
		InvalidShares: stats.InvalidShares.Uint64(),
		TotalHashes:   stats.Hashes.Uint64(),
	}
}
