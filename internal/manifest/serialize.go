package manifest

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func scalarUint(v uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatUint(v, 10), Tag: "!!int"}
}

func scalarBool(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatBool(v), Tag: "!!bool"}
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: pairs}
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

// ToYAML renders the manifest as the structured document described in
// spec.md §6.1, preserving deterministic key order (lexicographic host
// keys) so two runs over identical inputs produce byte-identical output.
// gmlPath is the path the regenerated GML file is written to, used only
// when the manifest's network graph type is "gml".
func (m *HostManifest) ToYAML(gmlPath string) (string, error) {
	general := mapping(
		scalar("stop_time"), scalarUint(m.StopTimeSeconds),
		scalar("log_level"), scalar(m.LogLevel),
		scalar("model_unblocked_syscall_latency"), scalarBool(true),
	)

	var graphNode *yaml.Node
	if m.NetworkGraphType == "gml" {
		graphNode = mapping(
			scalar("type"), scalar("gml"),
			scalar("file"), mapping(scalar("path"), scalar(gmlPath)),
		)
	} else {
		graphNode = mapping(scalar("type"), scalar(m.NetworkGraphType))
	}
	network := mapping(scalar("graph"), graphNode)

	hostPairs := make([]*yaml.Node, 0, len(m.HostOrder)*2)
	for _, name := range m.HostOrder {
		h := m.Hosts[name]
		hostPairs = append(hostPairs, scalar(name), hostToNode(h))
	}
	hosts := mapping(hostPairs...)

	root := mapping(
		scalar("general"), general,
		scalar("network"), network,
		scalar("hosts"), hosts,
	)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hostToNode(h Host) *yaml.Node {
	pairs := []*yaml.Node{scalar("network_node_id"), scalarUint(uint64(h.NetworkNodeID))}
	if h.HasIP {
		pairs = append(pairs, scalar("ip_addr"), scalar(h.IP))
	}
	if h.BWDown != "" {
		pairs = append(pairs, scalar("bandwidth_down"), scalar(h.BWDown))
	}
	if h.BWUp != "" {
		pairs = append(pairs, scalar("bandwidth_up"), scalar(h.BWUp))
	}
	if len(h.Processes) > 0 {
		procs := make([]*yaml.Node, 0, len(h.Processes))
		for _, p := range h.Processes {
			args := make([]*yaml.Node, 0, len(p.Args))
			for _, a := range p.Args {
				args = append(args, scalar(a))
			}
			envKeys := make([]string, 0, len(p.Env))
			for k := range p.Env {
				envKeys = append(envKeys, k)
			}
			sort.Strings(envKeys)
			envPairs := make([]*yaml.Node, 0, len(p.Env)*2)
			for _, k := range envKeys {
				envPairs = append(envPairs, scalar(k), scalar(p.Env[k]))
			}
			procs = append(procs, mapping(
				scalar("path"), scalar(p.Path),
				scalar("args"), sequence(args...),
				scalar("environment"), mapping(envPairs...),
				scalar("start_time"), scalar(p.StartTime),
			))
		}
		pairs = append(pairs, scalar("processes"), sequence(procs...))
	}
	return mapping(pairs...)
}
