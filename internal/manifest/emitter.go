package manifest

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	cfgpkg "synnergy-network/internal/config"
	"synnergy-network/internal/gmlgraph"
	"synnergy-network/internal/ipalloc"
	"synnergy-network/internal/peers"
	"synnergy-network/internal/topology"
)

// Emitter drives the GmlParser, TopologyAllocator, AsSubnetManager,
// AddressRegistry and PeerGraphBuilder in sequence to produce a
// HostManifest. It runs single-threaded: the AddressRegistry and
// AsSubnetManager it owns are not safe for concurrent use, matching
// spec.md §5's concurrency model.
type Emitter struct {
	Config    *cfgpkg.Config
	Graph     *gmlgraph.Graph
	Registry  *ipalloc.AddressRegistry
	ASManager *ipalloc.AsSubnetManager
	Allocator *topology.TopologyAllocator

	userAgents       []AgentDefinition
	fatalTopologyErr error
}

// NewEmitter constructs an Emitter from a loaded, validated Config.
func NewEmitter(cfg *cfgpkg.Config) *Emitter {
	alloc := &topology.TopologyAllocator{Strategy: topology.Global, Weights: topology.DefaultRegionWeights()}
	switch cfg.Network.DistributionStrategy {
	case "sequential":
		alloc.Strategy = topology.Sequential
	case "weighted":
		alloc.Strategy = topology.Weighted
		if len(cfg.Network.RegionWeights) > 0 {
			alloc.Weights = weightsFromMap(cfg.Network.RegionWeights)
		}
	}
	return &Emitter{
		Config:    cfg,
		Registry:  ipalloc.NewAddressRegistry(),
		ASManager: ipalloc.NewAsSubnetManager(),
		Allocator: alloc,
	}
}

func weightsFromMap(m map[string]int) topology.RegionWeights {
	w := topology.DefaultRegionWeights()
	if v, ok := m["north_america"]; ok {
		w.NorthAmerica = v
	}
	if v, ok := m["europe"]; ok {
		w.Europe = v
	}
	if v, ok := m["asia"]; ok {
		w.Asia = v
	}
	if v, ok := m["south_america"]; ok {
		w.SouthAmerica = v
	}
	if v, ok := m["africa"]; ok {
		w.Africa = v
	}
	if v, ok := m["oceania"]; ok {
		w.Oceania = v
	}
	return w
}

// LoadGraph parses and validates the GML network file, when the
// configuration selects network.type == "gml".
func (e *Emitter) LoadGraph(src string) error {
	g, err := gmlgraph.Parse(src)
	if err != nil {
		return err
	}
	if err := gmlgraph.Validate(g); err != nil {
		return err
	}
	if err := gmlgraph.ValidateNoDuplicateIPs(g); err != nil {
		return err
	}
	e.Graph = g
	return nil
}

func isMinerAttr(a map[string]string) bool {
	v, ok := a["is_miner"]
	return ok && cfgpkg.ParseBoolRelaxed(v)
}

func isSeedAttr(a map[string]string) bool {
	v, ok := a["seed_node"]
	return ok && cfgpkg.ParseBoolRelaxed(v)
}

func peerTemplate(topo string) peers.Template {
	switch topo {
	case "mesh":
		return peers.Mesh
	case "ring":
		return peers.Ring
	case "dag":
		return peers.Dag
	default:
		return peers.Star
	}
}

func peerMode(mode string) peers.Mode {
	switch mode {
	case "hardcoded":
		return peers.Hardcoded
	case "hybrid":
		return peers.Hybrid
	default:
		return peers.Dynamic
	}
}

// buildUserAgents materializes the configured user agents, computing
// is_miner and partitioning into miner/seed/regular buckets per
// spec.md §4.6 step 3.
func (e *Emitter) buildUserAgents() {
	cfg := e.Config
	template := peerTemplate(cfg.Network.Topology)
	mode := peerMode(cfg.Network.PeerMode)

	e.userAgents = make([]AgentDefinition, 0, len(cfg.Agents.UserAgents))
	for i, ua := range cfg.Agents.UserAgents {
		attrs := ua.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		def := AgentDefinition{
			ID:          fmt.Sprintf("user%03d", i),
			Kind:        KindUser,
			Daemon:      ua.Daemon,
			Wallet:      ua.Wallet,
			Script:      ua.UserScript,
			Attributes:  attrs,
			IsMiner:     isMinerAttr(attrs),
			SubnetGroup: attrs["subnet_group"],
		}
		e.userAgents = append(e.userAgents, def)
	}

	if err := peers.ValidateTopologySanity(template, len(e.userAgents)); err != nil {
		// Fatal; caller surfaces this via Emit's returned error.
		e.fatalTopologyErr = err
	}

	if mode != peers.Dynamic {
		var seedIdx []int
		for i, a := range e.userAgents {
			if a.IsMiner || isSeedAttr(a.Attributes) {
				seedIdx = append(seedIdx, i)
			}
		}
		need := 5 - len(seedIdx)
		if need > 0 {
			inSeed := make(map[int]bool, len(seedIdx))
			for _, i := range seedIdx {
				inSeed[i] = true
			}
			// Promote from regular first, then from miners not yet seeds.
			for i := range e.userAgents {
				if need <= 0 {
					break
				}
				if inSeed[i] || e.userAgents[i].IsMiner {
					continue
				}
				seedIdx = append(seedIdx, i)
				inSeed[i] = true
				need--
			}
			for i := range e.userAgents {
				if need <= 0 {
					break
				}
				if inSeed[i] {
					continue
				}
				seedIdx = append(seedIdx, i)
				inSeed[i] = true
				need--
			}
		}
		for _, i := range seedIdx {
			e.userAgents[i].IsSeedNode = true
		}
	}
}

// Emit runs the full HostManifestEmitter algorithm and returns the host
// manifest plus the agent and miner side registries.
func (e *Emitter) Emit() (*HostManifest, []AgentRegistryEntry, []MinerRegistryEntry, error) {
	e.buildUserAgents()
	if e.fatalTopologyErr != nil {
		return nil, nil, nil, e.fatalTopologyErr
	}

	stopSeconds, err := cfgpkg.ParseDuration(e.Config.General.StopTime)
	if err != nil {
		return nil, nil, nil, err
	}

	manifest := &HostManifest{
		StopTimeSeconds: stopSeconds,
		LogLevel:        e.Config.General.LogLevel,
		Hosts:           make(map[string]Host),
	}
	if e.Config.Network.Type == "gml" && e.Graph != nil {
		manifest.NetworkGraphType = "gml"
		manifest.NetworkGraphGML = gmlgraph.Serialize(e.Graph)
	} else {
		manifest.NetworkGraphType = "1_gbit_switch"
	}

	assigned := make(map[uint32]bool)
	var agentEntries []AgentRegistryEntry
	var minerEntries []MinerRegistryEntry

	template := peerTemplate(e.Config.Network.Topology)
	mode := peerMode(e.Config.Network.PeerMode)
	isDynamic := mode == peers.Dynamic

	nodeIDs := e.assignTopologyNodes(len(e.userAgents))

	var miners, seeds, regulars []int
	for i, a := range e.userAgents {
		switch {
		case a.IsMiner:
			miners = append(miners, i)
		case a.IsSeedNode:
			seeds = append(seeds, i)
		default:
			regulars = append(regulars, i)
		}
	}

	hosts := make([]string, 0, len(e.userAgents))
	minerIPByIdx := make(map[int]string)
	allHostsByIdx := make(map[int]string)

	// First pass: resolve every user agent's node id and IP so peer
	// arguments can reference each other's final address.
	resolvedIP := make([]string, len(e.userAgents))
	for i, a := range e.userAgents {
		var nodeID *uint32
		if nodeIDs[i] != nil {
			n := uint32(*nodeIDs[i])
			nodeID = &n
			assigned[n] = true
		}
		ip := e.resolveIP(a, nodeID, ipalloc.AgentUser, i)
		resolvedIP[i] = ip
		host := fmt.Sprintf("%s:%d", ip, daemonP2PPort)
		allHostsByIdx[i] = host
		if a.IsMiner {
			minerIPByIdx[i] = host
		}
	}
	var minerHosts []string
	for _, mi := range miners {
		minerHosts = append(minerHosts, minerIPByIdx[mi])
	}
	var seedHosts []string
	for _, si := range seeds {
		seedHosts = append(seedHosts, allHostsByIdx[si])
	}
	var explicitSeeds []string
	explicitSeeds = append(explicitSeeds, e.Config.Network.SeedNodes...)

	minerIdxOf := map[int]int{}
	for bi, i := range miners {
		minerIdxOf[i] = bi
	}
	regularIdxOf := map[int]int{}
	for bi, i := range regulars {
		regularIdxOf[i] = bi
	}
	seedIdxOf := map[int]int{}
	for bi, i := range seeds {
		seedIdxOf[i] = bi
	}

	for i, a := range e.userAgents {
		ip := resolvedIP[i]
		var bucket userBucket
		var idxInBucket int
		switch {
		case a.IsMiner:
			bucket, idxInBucket = bucketMiner, minerIdxOf[i]
		case a.IsSeedNode:
			bucket, idxInBucket = bucketSeed, seedIdxOf[i]
		default:
			bucket, idxInBucket = bucketRegular, regularIdxOf[i]
		}
		daemonStart := daemonStartSeconds(isDynamic, bucket, idxInBucket)

		peerArgs := peers.BuildPeerArgs(peers.BuildParams{
			Template:      template,
			Mode:          mode,
			AgentIndex:    i,
			OwnIP:         ip,
			Hosts:         allHostsOrdered(allHostsByIdx, len(e.userAgents)),
			MinerIPs:      minerHosts,
			ExplicitSeeds: explicitSeeds,
			IsSeedNode:    a.IsSeedNode,
			SeedHosts:     seedHosts,
			SeedIndex:     seedIdxOf[i],
		})

		dataDir := "/data/" + a.ID
		logFile := dataDir + "/daemon.log"
		var processes []ProcessSpec
		processes = append(processes, ProcessSpec{
			Path:      a.Daemon,
			Args:      daemonArgs(dataDir, logFile, e.Config.General.LogLevel, ip, a.IsMiner, peerArgs),
			Env:       map[string]string{},
			StartTime: startTimeLiteral(daemonStart),
		})
		if a.Wallet != "" {
			walletStart := walletStartSeconds(daemonStart)
			processes = append(processes, ProcessSpec{
				Path:      a.Wallet,
				Args:      walletArgs(dataDir, ip, daemonRPCPort),
				Env:       map[string]string{},
				StartTime: startTimeLiteral(walletStart),
			})
			if a.Script != "" {
				processes = append(processes, ProcessSpec{
					Path:      a.Script,
					Args:      userScriptArgs(a.ID),
					Env:       map[string]string{},
					StartTime: startTimeLiteral(userScriptStartSeconds(walletStart)),
				})
			}
		}

		h := Host{IP: ip, HasIP: true, Processes: processes}
		if nodeIDs[i] != nil {
			h.NetworkNodeID = uint32(*nodeIDs[i])
			h.HasNodeID = true
		}
		manifest.Hosts[a.ID] = h
		hosts = append(hosts, a.ID)

		agentEntries = append(agentEntries, AgentRegistryEntry{
			ID:            a.ID,
			IP:            ip,
			Daemon:        a.Daemon != "",
			Wallet:        a.Wallet != "",
			UserScript:    a.Script != "",
			Attributes:    a.Attributes,
			IsMiner:       a.IsMiner,
			WalletRPCPort: walletRPCPort,
			DaemonRPCPort: daemonRPCPort,
		})
		if a.IsMiner {
			weight := 10
			if hr, ok := a.Attributes["hashrate"]; ok {
				if w, err := strconv.Atoi(hr); err == nil && w > 0 {
					weight = w
				}
			}
			minerEntries = append(minerEntries, MinerRegistryEntry{
				AgentID: a.ID,
				IP:      ip,
				Weight:  weight,
			})
		}
	}
	normalizeMinerWeights(minerEntries)

	e.emitInfrastructureAgents(manifest, isDynamic, &agentEntries)

	if e.Graph != nil {
		e.emitDummyHosts(manifest, assigned)
	}

	sort.Strings(hosts)
	manifest.HostOrder = make([]string, 0, len(manifest.Hosts))
	for k := range manifest.Hosts {
		manifest.HostOrder = append(manifest.HostOrder, k)
	}
	sort.Strings(manifest.HostOrder)

	sort.Slice(agentEntries, func(i, j int) bool { return agentEntries[i].ID < agentEntries[j].ID })
	sort.Slice(minerEntries, func(i, j int) bool { return minerEntries[i].AgentID < minerEntries[j].AgentID })

	return manifest, agentEntries, minerEntries, nil
}

func allHostsOrdered(byIdx map[int]string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = byIdx[i]
	}
	return out
}

func normalizeMinerWeights(miners []MinerRegistryEntry) {
	total := 0
	for _, m := range miners {
		total += m.Weight
	}
	if total == 0 {
		for i := range miners {
			miners[i].Weight = 10
		}
	}
}

// assignTopologyNodes drives the TopologyAllocator, or returns all-nil
// assignments for switch-style (non-GML) topologies.
func (e *Emitter) assignTopologyNodes(n int) []*int {
	if e.Graph == nil {
		return topology.DistributeSwitch(n)
	}
	m := len(e.Graph.Nodes)
	indices := e.Allocator.Distribute(n, m)
	out := make([]*int, n)
	for i, idx := range indices {
		v := idx
		out[i] = &v
	}
	return out
}

func (e *Emitter) emitInfrastructureAgents(manifest *HostManifest, isDynamic bool, agentEntries *[]AgentRegistryEntry) {
	cfg := e.Config
	if bc := cfg.Agents.BlockController; bc != nil {
		ip := e.resolveIP(AgentDefinition{ID: "blockcontroller", Kind: KindBlockController}, nil, ipalloc.AgentBlockController, 0)
		start := blockControllerStartSeconds(isDynamic)
		manifest.Hosts["blockcontroller"] = Host{
			IP: ip, HasIP: true,
			Processes: []ProcessSpec{{
				Path:      bc.Script,
				Args:      bc.Arguments,
				Env:       map[string]string{},
				StartTime: startTimeLiteral(start),
			}},
		}
		*agentEntries = append(*agentEntries, AgentRegistryEntry{ID: "blockcontroller", IP: ip, Daemon: false})
	}
	if md := cfg.Agents.MinerDistributor; md != nil {
		ip := e.resolveIP(AgentDefinition{ID: "minerdistributor", Kind: KindMinerDistributor}, nil, ipalloc.AgentInfrastructure, 0)
		manifest.Hosts["minerdistributor"] = Host{
			IP: ip, HasIP: true,
			Processes: []ProcessSpec{{
				Path:      md.Script,
				Args:      nil,
				Env:       md.Attributes,
				StartTime: startTimeLiteral(minerDistributorStartSeconds),
			}},
		}
		*agentEntries = append(*agentEntries, AgentRegistryEntry{ID: "minerdistributor", IP: ip})
	}
	for i, ps := range cfg.Agents.PureScriptAgents {
		id := fmt.Sprintf("purescript%03d", i)
		ip := e.resolveIP(AgentDefinition{ID: id, Kind: KindPureScript}, nil, ipalloc.AgentPureScript, i)
		manifest.Hosts[id] = Host{
			IP: ip, HasIP: true,
			Processes: []ProcessSpec{{
				Path:      ps.Script,
				Args:      ps.Arguments,
				Env:       map[string]string{},
				StartTime: startTimeLiteral(pureScriptStartSeconds(i)),
			}},
		}
		*agentEntries = append(*agentEntries, AgentRegistryEntry{ID: id, IP: ip})
	}
	if sm := cfg.Agents.SimulationMonitor; sm != nil {
		ip := e.resolveIP(AgentDefinition{ID: "simmonitor", Kind: KindSimulationMonitor}, nil, ipalloc.AgentInfrastructure, 0)
		manifest.Hosts["simmonitor"] = Host{
			IP: ip, HasIP: true,
			Processes: []ProcessSpec{{
				Path:      sm.StatusFile,
				Args:      nil,
				Env:       map[string]string{},
				StartTime: startTimeLiteral(simulationMonitorStartSeconds),
			}},
		}
		*agentEntries = append(*agentEntries, AgentRegistryEntry{ID: "simmonitor", IP: ip})
	}
}

// emitDummyHosts satisfies the simulator's 1:1 node-to-host requirement:
// every GML topology node without an assigned agent gets a host with no
// processes but with bandwidth attributes carried over from the node.
func (e *Emitter) emitDummyHosts(manifest *HostManifest, assigned map[uint32]bool) {
	for _, n := range e.Graph.Nodes {
		if assigned[n.ID] {
			continue
		}
		name := fmt.Sprintf("dummy%03d", n.ID)
		h := Host{NetworkNodeID: n.ID, HasNodeID: true}
		if down, ok := n.Attributes["bandwidth_down"]; ok {
			h.BWDown = gmlgraph.NormalizeBandwidth(down)
		}
		if up, ok := n.Attributes["bandwidth_up"]; ok {
			h.BWUp = gmlgraph.NormalizeBandwidth(up)
		}
		manifest.Hosts[name] = h
		logrus.WithField("node_id", n.ID).Debug("manifest: emitted dummy host for unassigned topology node")
	}
}
