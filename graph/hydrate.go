package graph

// HydratedNode is one node instance bound against its registered
// definition: a freshly constructed Node, its parameters already set, its
// literal pin inputs kept separately from data-connection sourced values.
type HydratedNode struct {
	ID         string
	Type       string
	EntityID   string
	Instance   Node
	Definition NodeDefinition

	// LiteralInputs are the serialized node's "inputs" values — fallbacks
	// used when no data connection supplies a value for that pin.
	LiteralInputs map[string]any
}

// dataSource names one (nodeID, pinID) origin of a data connection.
type dataSource struct {
	NodeID string
	PinID  string
}

// HydratedGraph is the immutable, per-run materialization of a GraphAsset
// against a Registry: node instances keyed by id, flow adjacency, data
// adjacency, and resolved roots. Lives for exactly one run.
type HydratedGraph struct {
	AssetID string
	Nodes   map[string]*HydratedNode
	Roots   []string

	// flowAdjacency maps (fromNodeID, fromPinID) -> ordered target node ids.
	flowAdjacency map[scopeKey][]string

	// dataAdjacency maps (toNodeID, toPinID) -> ordered data sources, in
	// insertion order; the last one overwrites earlier values when inputs
	// are built.
	dataAdjacency map[scopeKey][]dataSource
}

// ListNodeIDs returns every hydrated node's id, in no particular order.
func (g *HydratedGraph) ListNodeIDs() []string {
	out := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		out = append(out, id)
	}
	return out
}

// FlowTargets returns the ordered target node ids connected from
// (fromNodeID, fromPinID).
func (g *HydratedGraph) FlowTargets(fromNodeID, fromPinID string) []string {
	return g.flowAdjacency[scopeKey{fromNodeID, fromPinID}]
}

// BuildInputs returns the node's literal inputs overlaid with the latest
// scope value from each data-connection source feeding it: later sources
// for the same pin win.
func (g *HydratedGraph) BuildInputs(nodeID string, scope *Scope) map[string]any {
	hn, ok := g.Nodes[nodeID]
	if !ok {
		return nil
	}
	inputs := make(map[string]any, len(hn.LiteralInputs))
	for k, v := range hn.LiteralInputs {
		inputs[k] = v
	}
	for pinID, sources := range groupDataSourcesByPin(g.dataAdjacency, nodeID) {
		for _, src := range sources {
			if v, ok := scope.Get(src.NodeID, src.PinID); ok {
				inputs[pinID] = v
			}
		}
	}
	return inputs
}

// groupDataSourcesByPin narrows the graph-wide dataAdjacency map down to the
// pins declared on nodeID.
func groupDataSourcesByPin(adj map[scopeKey][]dataSource, nodeID string) map[string][]dataSource {
	out := make(map[string][]dataSource)
	for k, sources := range adj {
		if k.nodeID == nodeID {
			out[k.pinID] = sources
		}
	}
	return out
}

// Hydrate constructs a HydratedGraph from asset against reg. Fails fast
// with a *HydrationError on the first unknown node type encountered.
func Hydrate(asset *GraphAsset, reg *Registry) (*HydratedGraph, error) {
	g := &HydratedGraph{
		AssetID:       asset.ID,
		Nodes:         make(map[string]*HydratedNode, len(asset.Nodes)),
		flowAdjacency: make(map[scopeKey][]string),
		dataAdjacency: make(map[scopeKey][]dataSource),
	}

	for _, sn := range asset.Nodes {
		kind, ok := reg.Lookup(sn.Type)
		if !ok {
			return nil, &HydrationError{
				Code:    "unknown_node_type",
				Message: "unknown node type " + sn.Type + " for node " + sn.ID,
				Cause:   ErrUnknownNodeType,
			}
		}
		instance := kind.Constructor()
		bindParameters(instance, kind.Definition, sn.Params)
		g.Nodes[sn.ID] = &HydratedNode{
			ID:            sn.ID,
			Type:          sn.Type,
			EntityID:      sn.EntityID,
			Instance:      instance,
			Definition:    kind.Definition,
			LiteralInputs: sn.Inputs,
		}
	}

	for _, conn := range asset.Connections {
		switch conn.Kind {
		case FlowConnection:
			key := scopeKey{conn.From.NodeID, conn.From.PinID}
			g.flowAdjacency[key] = append(g.flowAdjacency[key], conn.To.NodeID)
		case DataConnection:
			key := scopeKey{conn.To.NodeID, conn.To.PinID}
			g.dataAdjacency[key] = append(g.dataAdjacency[key], dataSource{conn.From.NodeID, conn.From.PinID})
		}
	}

	g.Roots = resolveRoots(asset, g)
	return g, nil
}

// bindParameters sets each declared parameter on instance, preferring the
// serialized value, falling back to the descriptor's DefaultValue, leaving
// the parameter unset when neither is present.
func bindParameters(instance Node, def NodeDefinition, params map[string]any) {
	paramSetter, ok := instance.(interface{ SetParam(id string, value any) })
	if !ok {
		return
	}
	for _, pd := range def.Parameters {
		if v, ok := params[pd.ID]; ok {
			paramSetter.SetParam(pd.ID, v)
		} else if pd.DefaultValue != nil {
			paramSetter.SetParam(pd.ID, pd.DefaultValue)
		}
	}
}

// resolveRoots computes the asset's root node ids: the asset's explicit
// Root field when present, otherwise nodes with no inbound flow connection,
// falling back to the first declared node when even that set is empty.
func resolveRoots(asset *GraphAsset, g *HydratedGraph) []string {
	if explicit := asset.RootIDs(); len(explicit) > 0 {
		return explicit
	}

	hasInbound := make(map[string]bool, len(g.Nodes))
	for _, targets := range g.flowAdjacency {
		for _, t := range targets {
			hasInbound[t] = true
		}
	}

	var roots []string
	for _, sn := range asset.Nodes {
		if !hasInbound[sn.ID] {
			roots = append(roots, sn.ID)
		}
	}
	if len(roots) > 0 {
		return roots
	}
	if len(asset.Nodes) > 0 {
		return []string{asset.Nodes[0].ID}
	}
	return nil
}
