package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/powerhive/poolwatch/pkg/pool"
)

// coinDecimals is the precision balances are shown with (one atomic unit).
const coinDecimals = 12

var printer = message.NewPrinter(language.English)

// formatCoins renders an atomic amount as XMR with full precision.
func formatCoins(atomic uint64) string {
	return pool.AtomicToCoins(atomic).StringFixed(coinDecimals) + " XMR"
}

// formatShares renders the hashrate line, e.g. "1,234 H/s - 10,000/3".
func formatShares(s pool.Stats) string {
	return printer.Sprintf("%d H/s - %d/%d", roundHashrate(s.Hashrate), s.ValidShares, s.InvalidShares)
}

// formatCount renders an integer with thousands separators.
func formatCount(n uint64) string {
	return printer.Sprintf("%d", n)
}

func roundHashrate(h float64) int64 {
	if h <= 0 || math.IsNaN(h) {
		return 0
	}
	if h >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Round(h))
}

// randomHash returns a decorative 64-character hex string. It does not
// correspond to any real mining work.
func randomHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%064x", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// renderStats writes one dashboard refresh to w.
func renderStats(w io.Writer, p pool.Descriptor, wallet string, s pool.Stats, at time.Time) {
	fmt.Fprintf(w, "\n=== %s (%s) @ %s ===\n", p.Name, p.WebsiteURL, at.Format("15:04:05"))
	fmt.Fprintf(w, "  Wallet:  %s\n", shortWallet(wallet))
	fmt.Fprintf(w, "  Paid:    %s\n", formatCoins(s.AmountPaid))
	fmt.Fprintf(w, "  Pending: %s\n", formatCoins(s.AmountDue))
	fmt.Fprintf(w, "  Metrics: %s\n", formatShares(s))
	fmt.Fprintf(w, "  Hashes:  %s\n", formatCount(s.TotalHashes))
	fmt.Fprintf(w, "  Hash:    %s\n", randomHash())
	if s.IsZero() {
		fmt.Fprintln(w, "  (no data for this wallet on this pool yet)")
	}
}

// renderPools writes the pool list, marking the active one.
func renderPools(w io.Writer, pools []pool.Descriptor, activeID string) {
	for _, p := range pools {
		marker := " "
		if p.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-12s %-12s %s\n", marker, p.ID, p.Name, p.WebsiteURL)
	}
}

// shortWallet abbreviates a wallet address for display.
func shortWallet(wallet string) string {
	if len(wallet) <= 16 {
		return wallet
	}
	return wallet[:8] + "..." + wallet[len(wallet)-8:]
}
