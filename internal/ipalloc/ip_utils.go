// Package ipalloc implements the IP/AS allocation subsystem: pure IP
// predicates, the AS-aware subnet manager, and the single bijective
// address registry (geographic dynamic allocator).
package ipalloc

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// IsValidIP reports whether s parses as an IPv4 or IPv6 literal.
func IsValidIP(s string) bool {
	return net.ParseIP(s) != nil
}

// IsValidIPv4 reports whether s parses as an IPv4 literal.
func IsValidIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// IsValidIPv6 reports whether s parses as an IPv6 literal that is not also
// a valid IPv4 literal.
func IsValidIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() == nil
}

// IsPrivateIP reports whether s falls within a well-known private range:
// 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16 for IPv4, fc00::/7 (ULA) for
// IPv6.
func IsPrivateIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	if v4 := ip.To4(); v4 != nil {
		switch {
		case v4[0] == 10:
			return true
		case v4[0] == 172 && v4[1] >= 16 && v4[1] <= 31:
			return true
		case v4[0] == 192 && v4[1] == 168:
			return true
		default:
			return false
		}
	}
	segs := ip.To16()
	return segs != nil && segs[0]&0xfe == 0xfc
}

// FormatWithSubnet appends the conventional subnet mask suffix for the
// address family: /24 for IPv4, /64 for IPv6.
func FormatWithSubnet(s string) (string, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return "", fmt.Errorf("ipalloc: invalid ip %q", s)
	}
	if ip.To4() != nil {
		return s + "/24", nil
	}
	return s + "/64", nil
}

// ExtractValidIPs filters candidates down to those that parse as valid IP
// literals, preserving order.
func ExtractValidIPs(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if IsValidIP(c) {
			out = append(out, c)
		}
	}
	return out
}

// GenerateIPRange produces count sequential IPv4 addresses starting at
// start, incrementing the last octet. Errors if the range would run past
// .255 or if start is not a valid IPv4 literal. IPv6 ranges are
// unsupported.
func GenerateIPRange(start string, count int) ([]string, error) {
	ip := net.ParseIP(start)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("ipalloc: GenerateIPRange requires a valid IPv4 start address, got %q", start)
	}
	v4 := ip.To4()
	parts := [4]int{int(v4[0]), int(v4[1]), int(v4[2]), int(v4[3])}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		last := parts[3] + i
		if last > 255 {
			return nil, fmt.Errorf("ipalloc: range exceeds .255 starting at %s with count %d", start, count)
		}
		out = append(out, fmt.Sprintf("%d.%d.%d.%d", parts[0], parts[1], parts[2], last))
	}
	return out, nil
}

// ParseASNumber parses a decimal AS-number string, matching the lenient
// numeric parsing used throughout the allocation subsystem.
func ParseASNumber(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
