// Package simerrors defines the typed error taxonomy shared across the
// harness-generation and log-analysis pipelines, so call sites can
// errors.As into the specific failure kind rather than matching on
// message text.
package simerrors

import "fmt"

// ConfigInvalidError reports a fatal configuration validation failure.
type ConfigInvalidError struct {
	Msg string
}

func (e *ConfigInvalidError) Error() string { return "config invalid: " + e.Msg }

func NewConfigInvalid(format string, args ...any) *ConfigInvalidError {
	return &ConfigInvalidError{Msg: fmt.Sprintf(format, args...)}
}

// GmlParseError reports a lexical or syntactic failure in the GML lexer/parser.
type GmlParseError struct {
	Pos int
	Msg string
}

func (e *GmlParseError) Error() string {
	return fmt.Sprintf("gml parse error at %d: %s", e.Pos, e.Msg)
}

func NewGmlParseError(pos int, format string, args ...any) *GmlParseError {
	return &GmlParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// GmlSemanticError reports a post-parse validation failure: duplicate node
// ids, dangling edges, or a disconnected multi-node graph.
type GmlSemanticError struct {
	Kind string // DuplicateNodeId | DanglingEdge | Disconnected
	Msg  string
}

func (e *GmlSemanticError) Error() string { return e.Kind + ": " + e.Msg }

func NewGmlSemanticError(kind, format string, args ...any) *GmlSemanticError {
	return &GmlSemanticError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IpConflictError reports that an IP is already bound to a different agent.
// Fatal when raised against a pre-allocated registration; logged and
// skipped when raised opportunistically during IP resolution.
type IpConflictError struct {
	IP            string
	ExistingAgent string
	NewAgent      string
}

func (e *IpConflictError) Error() string {
	return fmt.Sprintf("IP %s already assigned to agent %s", e.IP, e.ExistingAgent)
}

func NewIpConflict(ip, existing, attempted string) *IpConflictError {
	return &IpConflictError{IP: ip, ExistingAgent: existing, NewAgent: attempted}
}

// SubnetExhaustedError reports that an AS-number's /24 subnet has run out
// of host addresses. Always recoverable: callers fall through to dynamic
// allocation.
type SubnetExhaustedError struct {
	AS string
}

func (e *SubnetExhaustedError) Error() string {
	return fmt.Sprintf("subnet exhausted for AS %s", e.AS)
}

// AllocatorFailureError reports that the dynamic geographic allocator could
// not produce a unique IP for an agent. Recoverable: callers use the typed
// fallback.
type AllocatorFailureError struct {
	AgentID string
}

func (e *AllocatorFailureError) Error() string {
	return fmt.Sprintf("allocator failure for agent %s", e.AgentID)
}

// LogReadError reports that a per-node log file could not be opened or
// read. The owning file is skipped; other files continue.
type LogReadError struct {
	Path string
	Err  error
}

func (e *LogReadError) Error() string {
	return fmt.Sprintf("reading log %s: %v", e.Path, e.Err)
}

func (e *LogReadError) Unwrap() error { return e.Err }
