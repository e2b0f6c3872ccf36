// Package pool provides the shared interface and types for mining pool
// backends. It defines the abstraction that decouples the registry and the
// dashboard from specific pool APIs like SupportXMR or Nanopool.
package pool

import "context"

// Adapter abstracts a mining pool's public stats API.
// Implementations include supportxmr.Client and nanopool.Client.
type Adapter interface {
	// FetchStats returns the normalized statistics for a wallet.
	// A wallet unknown to the pool yields a zero Stats, not an error.
	// Any other failure is reported as ErrPoolUnavailable.
	FetchStats(ctx context.Context, wallet string) (Stats, error)

	// ValidateAddress reports whether wallet has a format this pool accepts.
	ValidateAddress(wallet string) bool

	// Name returns the pool's display name.
	Name() string

	// WebsiteURL returns the pool's public website.
	WebsiteURL() string
}

// Descriptor identifies a registered pool for listing and selection.
type Descriptor struct {
	// ID is the stable registry key (e.g., "supportxmr").
	ID string

	// Name is the display name (e.g., "SupportXMR").
	Name string

	// WebsiteURL is the pool's public website.
	WebsiteURL string
}

// Describe builds a Descriptor for an adapter registered under id.
func Describe(id string, a Adapter) Descriptor {
	return Descriptor{
		ID:         id,
		Name:       a.Name(),
		WebsiteURL: a.WebsiteURL(),
	}
}
