package gmlgraph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Serialize re-emits g as GML text, applying the numeric unit
// conversions the HostManifestEmitter requires when regenerating the
// network.graph GML file: any attribute key containing "bandwidth" has
// its value passed through NormalizeBandwidth.
func Serialize(g *Graph) string {
	var sb strings.Builder
	sb.WriteString("graph [\n")
	writeAttrs(&sb, g.Attributes, 1)
	for _, n := range g.Nodes {
		sb.WriteString("  node [\n")
		sb.WriteString(fmt.Sprintf("    id %d\n", n.ID))
		if n.HasLabel {
			sb.WriteString(fmt.Sprintf("    label %s\n", quoteIfNeeded(n.Label)))
		}
		writeAttrs(&sb, n.Attributes, 2)
		sb.WriteString("  ]\n")
	}
	for _, e := range g.Edges {
		sb.WriteString("  edge [\n")
		sb.WriteString(fmt.Sprintf("    source %d\n", e.Source))
		sb.WriteString(fmt.Sprintf("    target %d\n", e.Target))
		writeAttrs(&sb, e.Attributes, 2)
		sb.WriteString("  ]\n")
	}
	sb.WriteString("]\n")
	return sb.String()
}

func writeAttrs(sb *strings.Builder, attrs map[string]string, indent int) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pad := strings.Repeat("  ", indent)
	for _, k := range keys {
		v := attrs[k]
		if strings.Contains(strings.ToLower(k), "bandwidth") {
			v = NormalizeBandwidth(v)
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", pad, k, quoteIfNeeded(v)))
	}
}

func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(v)
	return `"` + escaped + `"`
}
