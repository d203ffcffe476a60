package urlhandler

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var (
	cgnat    = mustCIDR("100.64.0.0/10")
	v6unique = mustCIDR("fc00::/7")
	v6link   = mustCIDR("fe80::/10")
)

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic("invalid CIDR " + cidr + ": " + err.Error())
	}
	return network
}

// HostGuard classifies hosts as internal without resolving them.
type HostGuard struct {
	blocked map[string]bool
}

// NewHostGuard creates a guard. Each blocked entry also covers its subdomains.
func NewHostGuard(blockedHosts []string) *HostGuard {
	blocked := make(map[string]bool, len(blockedHosts))
	for _, host := range blockedHosts {
		if h := CanonicalHostname(host); h != "" {
			blocked[h] = true
		}
	}
	return &HostGuard{blocked: blocked}
}

// CanonicalHostname strips brackets, an IPv6 zone, a trailing dot and case.
func CanonicalHostname(host string) string {
	h := strings.TrimSpace(host)
	h = strings.TrimPrefix(h, "[")
	h = strings.TrimSuffix(h, "]")
	if i := strings.IndexByte(h, '%'); i >= 0 {
		h = h[:i]
	}
	h = strings.TrimRight(h, ".")
	return strings.ToLower(h)
}

// CheckHost returns ErrForbiddenHost for internal or blocklisted hostnames.
func (g *HostGuard) CheckHost(hostname string) error {
	host := CanonicalHostname(hostname)
	if host == "" {
		return fmt.Errorf("%w: empty host", ErrForbiddenHost)
	}

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s", ErrForbiddenHost, host)
	}

	if g != nil && g.isBlocked(host) {
		return fmt.Errorf("%w: %s is blocklisted", ErrForbiddenHost, host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ip = parseLegacyIPv4(host)
	}
	if ip != nil {
		return CheckIP(ip)
	}
	return nil
}

// CheckURL applies the scheme allow-list and CheckHost to u.
func (g *HostGuard) CheckURL(u *url.URL) error {
	if err := CheckScheme(u.Scheme); err != nil {
		return err
	}
	return g.CheckHost(u.Hostname())
}

func (g *HostGuard) isBlocked(host string) bool {
	for candidate := host; candidate != ""; {
		if g.blocked[candidate] {
			return true
		}
		i := strings.IndexByte(candidate, '.')
		if i < 0 {
			break
		}
		candidate = candidate[i+1:]
	}
	return false
}

// CheckIP returns ErrForbiddenHost when ip is not publicly routable.
func CheckIP(ip net.IP) error {
	if IsPrivateIP(ip) {
		return fmt.Errorf("%w: %s is an internal address", ErrForbiddenHost, ip)
	}
	return nil
}

// IsPrivateIP reports loopback, unspecified, RFC 1918, CGNAT, link-local and
// IPv6 unique-local addresses, including their IPv4-mapped IPv6 forms.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip4 := ip.To4(); ip4 != nil {
		switch {
		case ip4[0] == 0:
			return true
		case ip4[0] == 127:
			return true
		case ip4[0] == 10:
			return true
		case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
			return true
		case ip4[0] == 192 && ip4[1] == 168:
			return true
		case ip4[0] == 169 && ip4[1] == 254:
			return true
		case cgnat.Contains(ip4):
			return true
		}
		return false
	}

	return ip.IsLoopback() ||
		ip.IsUnspecified() ||
		v6unique.Contains(ip) ||
		v6link.Contains(ip) ||
		ip.IsLinkLocalMulticast()
}

// parseLegacyIPv4 accepts the inet_aton forms some resolvers still honour:
// one to four dot-separated parts in decimal, octal (leading 0) or hex (0x).
// "127.1", "0x7f000001" and "2130706433" all map to 127.0.0.1.
func parseLegacyIPv4(host string) net.IP {
	parts := strings.Split(host, ".")
	if len(parts) > 4 {
		return nil
	}

	values := make([]uint64, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil
		}
		v, err := strconv.ParseUint(part, 0, 32)
		if err != nil {
			return nil
		}
		values[i] = v
	}

	var addr uint64
	last := len(values) - 1
	for i := 0; i < last; i++ {
		if values[i] > 0xff {
			return nil
		}
		addr |= values[i] << (24 - 8*uint(i))
	}
	if values[last] >= 1<<(32-8*uint(last)) {
		return nil
	}
	addr |= values[last]

	return net.IPv4(byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}
