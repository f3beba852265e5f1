package pipeline

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/stage"
)

// execGraph is the resolved execution plan for one pipeline definition:
// a validated DAG with a deterministic topological order and the effective
// dependency and optionality of every stage.
type execGraph struct {
	// order is the stable topological order; ties are broken by
	// declaration order so results are reproducible for a given definition.
	order     []string
	deps      map[string][]string
	optional  map[string]bool
	executors map[string]stage.Executor
}

// buildGraph resolves a definition against the executor registry.
// A stage spec that declares no dependencies inherits the executor's
// static declaration. Cycles fail with core.ErrInvalidDefinition.
func buildGraph(def *core.PipelineDefinition, reg *stage.Registry) (*execGraph, error) {
	if err := core.ValidateDefinition(def); err != nil {
		return nil, err
	}

	eg := &execGraph{
		deps:      make(map[string][]string, len(def.Stages)),
		optional:  make(map[string]bool, len(def.Stages)),
		executors: make(map[string]stage.Executor, len(def.Stages)),
	}

	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	declared := make(map[string]int, len(def.Stages))

	for i, spec := range def.Stages {
		exec, err := reg.Get(spec.Name)
		if err != nil {
			return nil, err
		}
		if err := g.AddVertex(spec.Name); err != nil {
			return nil, err
		}
		declared[spec.Name] = i
		eg.executors[spec.Name] = exec
		eg.optional[spec.Name] = spec.Optional || exec.Optional()
	}

	for _, spec := range def.Stages {
		deps := spec.DependsOn
		if len(deps) == 0 {
			deps = eg.executors[spec.Name].DependsOn()
		}
		for _, dep := range deps {
			if _, ok := declared[dep]; !ok {
				return nil, fmt.Errorf("%w: %w: %q -> %q",
					core.ErrInvalidDefinition, core.ErrUnknownDependency, spec.Name, dep)
			}
			err := g.AddEdge(dep, spec.Name)
			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				return nil, fmt.Errorf("%w: cycle through %q and %q",
					core.ErrInvalidDefinition, dep, spec.Name)
			}
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
			eg.deps[spec.Name] = append(eg.deps[spec.Name], dep)
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return declared[a] < declared[b]
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidDefinition, err)
	}
	eg.order = order

	return eg, nil
}

// readiness inspects the recorded results of a stage's dependencies.
// It returns ready=true when every dependency succeeded, or the name of
// the first dependency that failed or was skipped.
func (g *execGraph) readiness(name string, results map[string]core.StageResult) (ready bool, blockedBy string) {
	for _, dep := range g.deps[name] {
		res, ok := results[dep]
		if !ok {
			return false, ""
		}
		if res.Status != core.StageSuccess {
			return false, dep
		}
	}
	return true, ""
}
