package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from forwarding headers, but only when
// the connection itself comes from a configured proxy. Requests arriving
// from anywhere else keep their socket address, so clients cannot spoof
// the IP the rate limiter and request logs key on.
//
// proxies entries may be CIDRs or bare addresses. Malformed entries are
// logged and skipped at startup.
func TrustedRealIP(proxies []string) func(http.Handler) http.Handler {
	trusted := parseProxyList(proxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if remoteIsTrusted(r.RemoteAddr, trusted) {
				if ip := forwardedClientIP(r); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseProxyList parses proxy entries into networks, widening bare
// addresses to single-host masks.
func parseProxyList(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			mask := net.CIDRMask(128, 128)
			if ip.To4() != nil {
				mask = net.CIDRMask(32, 32)
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: mask})
			continue
		}
		slog.Warn("realip: invalid trusted proxy entry, skipping", "entry", entry)
	}
	return nets
}

// forwardedClientIP returns the client address a proxy asserted for this
// request: X-Real-IP when present, else the first X-Forwarded-For hop.
// Values that do not parse as IPs are ignored.
func forwardedClientIP(r *http.Request) net.IP {
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return net.ParseIP(rip)
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return nil
	}
	if idx := strings.Index(xff, ","); idx > 0 {
		xff = xff[:idx]
	}
	return net.ParseIP(strings.TrimSpace(xff))
}

// remoteIsTrusted reports whether the connection's source address falls in
// any trusted network. addr may be host:port or a bare IP.
func remoteIsTrusted(addr string, trusted []*net.IPNet) bool {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
