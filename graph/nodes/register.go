package nodes

import "github.com/vexgraph/runtime/graph"

// RegisterBuiltins registers every built-in control node, plus the
// component-call node, against reg. Call once per registry during process
// start-up, before any graph asset referencing these types is hydrated.
func RegisterBuiltins(reg *graph.Registry) {
	reg.Register(BranchDefinition, NewBranch)
	reg.Register(DelayDefinition, NewDelay)
	reg.Register(ParallelDefinition, NewParallel)
	reg.Register(SetVariableDefinition, NewSetVariable)
	reg.Register(GetVariableDefinition, NewGetVariable)
	reg.Register(LoopDefinition, NewLoop)
	reg.Register(WaitForNodesDefinition, NewWaitForNodes)
	reg.Register(RunSubgraphDefinition, NewRunSubgraph)
	reg.Register(OnEventDefinition, NewOnEvent)
	reg.Register(ComponentActionDefinition, NewCallComponentAction)
}
