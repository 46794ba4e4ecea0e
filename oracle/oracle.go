// Package oracle runs the security checks that consume a built Network:
// each Oracle inspects the CFGs, data flow links and alias tables of every
// function in a contract and reports the vertices/paths it considers
// suspicious, rather than proving anything unsound — these are heuristics
// for a human auditor to look at next, not a soundness guarantee.
package oracle

import "github.com/solgraph/solgraph/network"

// Severity ranks how confident an Oracle is that a Finding is exploitable.
type Severity int

const (
	Info Severity = iota
	Warning
	Critical
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Finding is one suspicious vertex/path an Oracle surfaced.
type Finding struct {
	Rule       string
	Severity   Severity
	FunctionID uint32
	VertexID   uint32
	Message    string
}

// Oracle analyzes a built Network and reports Findings.
type Oracle interface {
	Analyze(n *network.Network) []Finding
}

// Run executes every oracle against n and concatenates their Findings.
func Run(n *network.Network, oracles ...Oracle) []Finding {
	var out []Finding
	for _, o := range oracles {
		out = append(out, o.Analyze(n)...)
	}
	return out
}

// All returns one instance of every built-in oracle, in a fixed order.
func All() []Oracle {
	return []Oracle{
		&Suicidal{},
		&BlockDependent{},
		&GaslessSend{},
		&Ownership{},
		&BalanceTaint{},
	}
}
