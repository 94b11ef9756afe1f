package gmlgraph

import (
	"strconv"
	"strings"
)

// normalizePacketLoss converts a percent-suffixed packet_loss value to a
// fractional decimal string, e.g. "0.1%" -> "0.001". Values without a "%"
// suffix pass through unchanged.
func normalizePacketLoss(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasSuffix(trimmed, "%") {
		return raw
	}
	numPart := strings.TrimSuffix(trimmed, "%")
	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(f/100.0, 'f', -1, 64)
}

// NormalizeBandwidth converts a bandwidth-with-unit literal into a plain
// Mbit numeric string: "Gbit" multiplies by 1000 and strips the suffix,
// "Mbit" strips the suffix unchanged.
func NormalizeBandwidth(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasSuffix(trimmed, "Gbit"):
		numPart := strings.TrimSpace(strings.TrimSuffix(trimmed, "Gbit"))
		f, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return raw
		}
		return strconv.FormatFloat(f*1000.0, 'f', -1, 64)
	case strings.HasSuffix(trimmed, "Mbit"):
		return strings.TrimSpace(strings.TrimSuffix(trimmed, "Mbit"))
	default:
		return raw
	}
}
