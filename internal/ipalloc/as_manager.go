package ipalloc

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"synnergy-network/internal/simerrors"
)

// ASRegion classifies an AS number into a coarse geographic bucket, used
// only for logging/statistics — never for allocation decisions.
type ASRegion string

const (
	RegionNA      ASRegion = "NA"
	RegionEU      ASRegion = "EU"
	RegionAsia    ASRegion = "Asia"
	RegionSA      ASRegion = "SA"
	RegionAfrica  ASRegion = "Africa"
	RegionOceania ASRegion = "Oceania"
	RegionUnknown ASRegion = "Unknown"
)

// ClassifyASRegion maps an AS number to its implicit region bucket.
func ClassifyASRegion(asNumber int) ASRegion {
	switch {
	case asNumber >= 0 && asNumber <= 199:
		return RegionNA
	case asNumber >= 200 && asNumber <= 499:
		return RegionEU
	case asNumber >= 500 && asNumber <= 799:
		return RegionAsia
	case asNumber >= 800 && asNumber <= 999:
		return RegionSA
	case asNumber >= 1000 && asNumber <= 1099:
		return RegionAfrica
	case asNumber >= 1100 && asNumber <= 1199:
		return RegionOceania
	default:
		return RegionUnknown
	}
}

// SubnetBase returns the deterministic "10.{as/256}.{as%256}" /24 base for
// an AS number. Pure function of the input.
func SubnetBase(asNumber string) (string, error) {
	n, err := ParseASNumber(asNumber)
	if err != nil {
		return "", fmt.Errorf("ipalloc: AsSubnetManager.SubnetBase: non-numeric AS %q: %w", asNumber, err)
	}
	return fmt.Sprintf("10.%d.%d", n/256, n%256), nil
}

// AsSubnetManager hands out unique hosts within each AS's deterministic
// /24, starting the per-AS counter at host 10. Not safe for concurrent
// use; the HostManifestEmitter owns it exclusively during a single
// emission pass.
type AsSubnetManager struct {
	counters map[string]int
}

// NewAsSubnetManager constructs an empty manager.
func NewAsSubnetManager() *AsSubnetManager {
	return &AsSubnetManager{counters: make(map[string]int)}
}

// Assign returns the next host IP within asNumber's /24, or a
// SubnetExhaustedError once the counter would reach 255.
func (m *AsSubnetManager) Assign(asNumber string) (string, error) {
	base, err := SubnetBase(asNumber)
	if err != nil {
		return "", err
	}
	host, ok := m.counters[asNumber]
	if !ok {
		host = 10
	}
	if host >= 255 {
		logrus.WithField("as", asNumber).Warn("ipalloc: AS subnet exhausted, falling through to dynamic allocation")
		return "", &simerrors.SubnetExhaustedError{AS: asNumber}
	}
	m.counters[asNumber] = host + 1
	n, _ := ParseASNumber(asNumber)
	logrus.WithFields(logrus.Fields{
		"as":     asNumber,
		"region": ClassifyASRegion(n),
		"ip":     fmt.Sprintf("%s.%d", base, host),
	}).Debug("ipalloc: assigned AS-aware ip")
	return fmt.Sprintf("%s.%d", base, host), nil
}
