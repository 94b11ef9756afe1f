package ipalloc

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"synnergy-network/internal/simerrors"
)

// AgentType classifies an agent for the typed-fallback IP scheme.
type AgentType int

const (
	AgentUser AgentType = iota
	AgentBlockController
	AgentPureScript
	AgentInfrastructure
)

var digitsAfterPrefix = regexp.MustCompile(`[0-9]+`)

// AddressRegistry is the single bijective ip <-> agent table: the sole
// source of truth and the arbiter of IP conflicts. It is NOT safe for
// concurrent use by design — the HostManifestEmitter runs single-threaded
// and owns this aggregate exclusively for the duration of one emission
// pass; no internal locking is present or needed.
type AddressRegistry struct {
	assigned map[string]string // ip -> agent_id
	ownerOf  *lru.Cache[string, string]
}

// NewAddressRegistry constructs an empty registry.
func NewAddressRegistry() *AddressRegistry {
	cache, _ := lru.New[string, string](4096)
	return &AddressRegistry{
		assigned: make(map[string]string),
		ownerOf:  cache,
	}
}

// IsAssigned reports whether ip already has an owner.
func (r *AddressRegistry) IsAssigned(ip string) bool {
	_, ok := r.assigned[ip]
	return ok
}

// Owner returns the agent id bound to ip, if any. Consults a bounded LRU
// accelerator in front of the canonical map first; the map remains the
// single source of truth, the cache is purely a read accelerator for
// repeated owner() lookups (e.g. the resilience analyzer's peer-ip to
// node-id resolution).
func (r *AddressRegistry) Owner(ip string) (string, bool) {
	if v, ok := r.ownerOf.Get(ip); ok {
		return v, true
	}
	agent, ok := r.assigned[ip]
	if ok {
		r.ownerOf.Add(ip, agent)
	}
	return agent, ok
}

// RegisterPreAllocated binds ip to agentID. Fails if ip is already bound
// to a different agent.
func (r *AddressRegistry) RegisterPreAllocated(ip, agentID string) error {
	if existing, ok := r.assigned[ip]; ok && existing != agentID {
		return simerrors.NewIpConflict(ip, existing, agentID)
	}
	r.assigned[ip] = agentID
	r.ownerOf.Remove(ip)
	return nil
}

// numericKey extracts the numeric component of an agent_id used by the
// geographic dynamic allocator: "user" -> N, "script" -> 100+N,
// "blockcontroller" -> 200 flat, else 0.
func numericKey(agentID string) int {
	lower := strings.ToLower(agentID)
	switch {
	case strings.HasPrefix(lower, "user"):
		if m := digitsAfterPrefix.FindString(lower[4:]); m != "" {
			n, _ := strconv.Atoi(m)
			return n
		}
		return 0
	case strings.HasPrefix(lower, "script"):
		if m := digitsAfterPrefix.FindString(lower[6:]); m != "" {
			n, _ := strconv.Atoi(m)
			return 100 + n
		}
		return 100
	case lower == "blockcontroller":
		return 200
	default:
		return 0
	}
}

// Assign runs the geographic dynamic allocator for agentID: a deterministic
// function of agentID modulo collisions. Identical inputs produce
// identical outputs. Callers must serialize calls; no internal locking.
func (r *AddressRegistry) Assign(agentType AgentType, agentID string) (string, error) {
	n := numericKey(agentID)
	region := n % 6
	subnetOffset := n / 6

	var octet1, octet2 int
	switch region {
	case 0:
		octet1, octet2 = 10, subnetOffset%256
	case 1:
		octet1, octet2 = 172, 16+subnetOffset%16
	case 2:
		octet1, octet2 = 203, subnetOffset%256
	case 3:
		octet1, octet2 = 200, subnetOffset%256
	case 4:
		octet1, octet2 = 197, subnetOffset%256
	case 5:
		octet1, octet2 = 202, subnetOffset%256
	}
	if region == 0 && n%12 == 0 {
		octet1, octet2 = 192, 168
	}
	octet3 := n % 256
	octet4 := 10 + (n/256)%246

	candidate := fmt.Sprintf("%d.%d.%d.%d", octet1, octet2, octet3, octet4)
	if owner, taken := r.assigned[candidate]; !taken || owner == agentID {
		r.assigned[candidate] = agentID
		r.ownerOf.Remove(candidate)
		return candidate, nil
	}

	fallbackOctet4 := octet4 + 100
	fallback := fmt.Sprintf("%d.%d.%d.%d", octet1, octet2, octet3, fallbackOctet4)
	if owner, taken := r.assigned[fallback]; !taken || owner == agentID {
		r.assigned[fallback] = agentID
		r.ownerOf.Remove(fallback)
		return fallback, nil
	}

	logrus.WithField("agent", agentID).Warn("ipalloc: dynamic allocator exhausted both candidates")
	return "", &simerrors.AllocatorFailureError{AgentID: agentID}
}

// TypedFallback returns the last-resort IP for an agent when every other
// resolution priority has failed, keyed by agent type and index.
func TypedFallback(agentType AgentType, index int) string {
	var third int
	switch agentType {
	case AgentUser:
		third = 10
	case AgentPureScript:
		third = 30
	case AgentInfrastructure:
		third = 40
	default:
		third = 20
	}
	return fmt.Sprintf("192.168.%d.%d", third, 10+index%245)
}

// AssignSubnetGroupIP returns the first free host in a deterministic /24
// keyed by a hash of group, scanning hosts .10 through .254. This
// implements the subnet-group priority (spec §4.7 priority 0) whose
// original Rust body was not present in the retrieved reference source;
// the /24 base is derived from group's FNV-1a hash so the same group
// name always maps to the same subnet.
func (r *AddressRegistry) AssignSubnetGroupIP(group, agentID string) (string, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(group))
	sum := h.Sum32()
	octet2 := int(sum % 256)
	base := fmt.Sprintf("10.200.%d", octet2)
	for host := 10; host < 255; host++ {
		candidate := fmt.Sprintf("%s.%d", base, host)
		if owner, taken := r.assigned[candidate]; !taken || owner == agentID {
			r.assigned[candidate] = agentID
			r.ownerOf.Remove(candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("ipalloc: subnet group %q exhausted", group)
}
