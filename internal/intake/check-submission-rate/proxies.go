// internal/intake/check-submission-rate/proxies.go
package checksubmissionrate

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ProxyList holds the networks whose X-Forwarded-For headers are believed.
// A nil list trusts nobody.
type ProxyList struct {
	nets []*net.IPNet
}

// ParseTrustedProxies accepts CIDRs ("10.0.0.0/8") and single addresses.
func ParseTrustedProxies(entries []string) (*ProxyList, error) {
	p := &ProxyList{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		p.nets = append(p.nets, ipNet)
	}
	return p, nil
}

func (p *ProxyList) trusts(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientID identifies the caller. X-Forwarded-For is only read when the
// connection comes from a trusted proxy; hops are walked right to left and
// the first untrusted address wins.
func (p *ProxyList) ClientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !p.trusts(net.ParseIP(host)) {
		return "ip:" + host
	}

	var hops []string
	for _, h := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(h, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(hops[i])
		if ip == nil {
			// unparseable hop was written by the client itself
			return "ip:" + hops[i]
		}
		if !p.trusts(ip) {
			return "ip:" + ip.String()
		}
	}
	if len(hops) > 0 {
		return "ip:" + hops[0]
	}
	return "ip:" + host
}
