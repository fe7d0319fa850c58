// Batch verification of a file's independent definitions (spec [EXPANSION]
// "Batch verification"): dependency levels are computed once with
// scope.DepGraph, then every level's proof terms are verified concurrently.
package verify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nqpv-lang/nqpv/ast"
	"github.com/nqpv-lang/nqpv/scope"
)

// Def is one named definition in a file: a proof term plus the names of
// other definitions its expression references (edges into scope.DepGraph).
type Def struct {
	Name      string
	ProofTerm *ast.ProofTerm
	DependsOn []string
}

// FileResult collects one Result per definition, keyed by name.
type FileResult struct {
	Results map[string]*Result
	Errors  map[string]error
}

// VerifyFile verifies every Def in defs against a common parent scope,
// scheduling independent definitions concurrently within each dependency
// level (spec [EXPANSION] "Batch verification"). Each concurrent
// VerifyProofTerm call runs against its own child scope of parent, so no
// two callers share a scope (spec §5).
func VerifyFile(ctx context.Context, parent *scope.Scope, defs []Def) (*FileResult, error) {
	graph := scope.NewDepGraph()
	idByName := make(map[string]int, len(defs))
	for _, d := range defs {
		idByName[d.Name] = graph.AddNode(d.Name)
	}
	for _, d := range defs {
		parents := make([]int, 0, len(d.DependsOn))
		for _, dep := range d.DependsOn {
			if id, ok := idByName[dep]; ok {
				parents = append(parents, id)
			}
		}
		graph.AddEdges(idByName[d.Name], parents)
	}

	defByName := make(map[string]Def, len(defs))
	for _, d := range defs {
		defByName[d.Name] = d
	}

	fr := &FileResult{
		Results: make(map[string]*Result, len(defs)),
		Errors:  make(map[string]error, len(defs)),
	}

	for _, level := range graph.Levels() {
		type outcome struct {
			name   string
			result *Result
			err    error
		}
		outcomes := make([]outcome, len(level.Nodes))

		// NewChild mutates parent's own bindings/children maps (scope.go:76-77),
		// so every child scope for this level is allocated here, sequentially,
		// before the errgroup fans out. Only then is parent read-only for the
		// rest of the level: each goroutine below touches just its own child.
		children := make([]*scope.Scope, len(level.Nodes))
		for i, nodeID := range level.Nodes {
			name := graph.Name(nodeID)
			child, err := parent.NewChild(name)
			if err != nil {
				outcomes[i] = outcome{name: name, err: err}
				continue
			}
			children[i] = child
		}

		g, gctx := errgroup.WithContext(ctx)
		for i, nodeID := range level.Nodes {
			i, nodeID := i, nodeID
			if children[i] == nil {
				continue // NewChild already failed above
			}
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				name := graph.Name(nodeID)
				d := defByName[name]
				result, err := VerifyProofTerm(children[i], d.ProofTerm)
				outcomes[i] = outcome{name: name, result: result, err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fr, err
		}
		for _, o := range outcomes {
			if o.err != nil {
				fr.Errors[o.name] = o.err
				continue
			}
			fr.Results[o.name] = o.result
		}
	}

	return fr, nil
}
