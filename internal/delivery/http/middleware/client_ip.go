package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPResolver picks the address a request is attributed to. The
// X-Forwarded-For header is only read when the direct peer is one of the
// trusted proxies; otherwise any client could choose its own identity.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver accepts plain IPs and CIDR ranges. Entries that parse
// as neither are ignored.
func NewClientIPResolver(trustedProxies []string) *ClientIPResolver {
	r := &ClientIPResolver{}
	for _, entry := range trustedProxies {
		if network := ParseProxyEntry(entry); network != nil {
			r.trusted = append(r.trusted, network)
		}
	}
	return r
}

// ParseProxyEntry turns "10.0.0.1" or "10.0.0.0/8" into a network, or nil.
func ParseProxyEntry(entry string) *net.IPNet {
	entry = strings.TrimSpace(entry)
	if _, network, err := net.ParseCIDR(entry); err == nil {
		return network
	}
	ip := net.ParseIP(entry)
	if ip == nil {
		return nil
	}
	bits := 128
	if v4 := ip.To4(); v4 != nil {
		ip, bits = v4, 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

// ClientIP walks X-Forwarded-For from the nearest hop outwards and returns
// the first address that is not a trusted proxy.
func (r *ClientIPResolver) ClientIP(req *http.Request) string {
	remote := remoteHost(req)
	if !r.isTrusted(remote) {
		return remote
	}

	hops := strings.Split(req.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !r.isTrusted(hop) {
			return hop
		}
		remote = hop
	}
	return remote
}

func (r *ClientIPResolver) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range r.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func remoteHost(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
