package middleware

import (
	"context"
	"net/http"
	"net/netip"
	"strings"

	"github.com/xy-planning-network/switchback"
)

// UnknownIPAddress is reported when no header names a public address.
const UnknownIPAddress = "0.0.0.0"

// ipHeaders are read in order for the address of the client behind a proxy.
var ipHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

// IANA defined IPv4 non-public ranges not covered by [netip.Addr.IsPrivate].
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
}

// InjectIPAddress promotes the client address found by GetIPAddress
// to *http.Request.Context under switchback.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), switchback.IpAddrKey, GetIPAddress(r.Header))
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIPAddress finds the client address in the "X-Forwarded-For", then "X-Real-Ip", headers.
//
// Each header is read right to left, the first public address being the one
// right before the proxy. Non-public addresses are skipped.
func GetIPAddress(hm http.Header) string {
	for _, h := range ipHeaders {
		addrs := strings.Split(hm.Get(h), ",")
		for i := len(addrs) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(addrs[i]))
			if err != nil || !isPublic(addr) {
				continue
			}

			return addr.String()
		}
	}

	return UnknownIPAddress
}

func isPublic(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return false
	}

	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return false
		}
	}

	return true
}
