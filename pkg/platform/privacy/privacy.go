// Package privacy reduces personal data to a form that is safe to log.
package privacy

import (
	"net/netip"
	"strings"
)

// AnonymizeIP masks an address to its /24 (IPv4) or /48 (IPv6) network.
// Returns "unknown" for empty input and "invalid" when the address cannot be parsed.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// EmailDomain returns the part after the last "@", lowercased, so failed
// logins can be correlated without logging the address itself.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return "invalid"
	}
	return strings.ToLower(email[at+1:])
}
