package pool

import "regexp"

// MoneroAddressLength is the length of a standard or subaddress XMR address.
const MoneroAddressLength = 95

// moneroAddressPattern matches mainnet standard (4) and subaddress (8)
// addresses: network byte prefix, constrained second character, then 93
// base58 characters.
var moneroAddressPattern = regexp.MustCompile(`^[48][0-9AB][1-9A-HJ-NP-Za-km-z]{93}$`)

// ValidMoneroAddress reports whether addr looks like a Monero mainnet address.
// It checks format only; the checksum is not verified.
func ValidMoneroAddress(addr string) bool {
	return moneroAddressPattern.MatchString(addr)
}
