// internal/parametric/graph.go
package parametric

import (
	"fmt"
	"strings"

	"github.com/solatis/parametrix/internal/formula"
	"github.com/solatis/parametrix/internal/types"
)

/*
 * Dependency graph and evaluation order.
 *
 * The graph is derived from formulas on every call: an edge A -> B exists
 * when A's formula references parameter B. Identifiers that are not known
 * parameter names add no edge; if such a name is really needed the formula
 * fails later with an unresolved variable, contained to that parameter.
 * Formulas that do not parse also add no edges for the same reason.
 *
 * Ordering is a depth-first post-order walk. Roots are visited in input
 * order and dependencies in first-seen formula order, so independent
 * parameters keep their input order and the result is deterministic.
 * A node revisited while still on the current path is a cycle; the error
 * carries the full path (a -> b -> c -> a) and no partial order is returned.
 * The walk keeps an explicit stack, so chain length is bounded only by the
 * number of parameters.
 */

// Dependency lists the direct edges of one parameter.
type Dependency struct {
	DependsOn  []string `json:"depends_on"`
	Dependents []string `json:"dependents"`
}

// CircularDependencyError reports a dependency cycle.
// Path starts and ends with the same parameter name.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Path, " -> "))
}

func (e *CircularDependencyError) Unwrap() error {
	return types.ErrCircularDependency
}

// BuildDependencyGraph maps every parameter name to its direct edges.
// Only number/angle parameters with a formula have outgoing edges.
func BuildDependencyGraph(params []types.Parameter) map[string]*Dependency {
	graph := make(map[string]*Dependency, len(params))
	for _, p := range params {
		graph[p.Name] = &Dependency{DependsOn: []string{}, Dependents: []string{}}
	}

	for _, p := range params {
		for _, ref := range formulaRefs(p) {
			if _, known := graph[ref]; !known {
				continue
			}
			graph[p.Name].DependsOn = append(graph[p.Name].DependsOn, ref)
			graph[ref].Dependents = append(graph[ref].Dependents, p.Name)
		}
	}
	return graph
}

// formulaRefs returns the identifiers referenced by a numeric parameter's formula.
func formulaRefs(p types.Parameter) []string {
	if !p.DataType.IsNumeric() || strings.TrimSpace(p.Formula) == "" {
		return nil
	}
	return formula.ExtractVariables(p.Formula)
}

// EvaluationOrder returns parameter names ordered so each parameter follows
// everything its formula references.
func EvaluationOrder(params []types.Parameter) ([]string, error) {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateParameter, p.Name)
		}
		seen[p.Name] = true
	}

	graph := BuildDependencyGraph(params)
	order := make([]string, 0, len(params))
	visited := make(map[string]bool, len(params))
	onPath := make(map[string]bool)

	type frame struct {
		name string
		next int
	}

	for _, p := range params {
		if visited[p.Name] {
			continue
		}

		stack := []frame{{name: p.Name}}
		onPath[p.Name] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := graph[top.name].DependsOn
			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++
				if visited[dep] {
					continue
				}
				if onPath[dep] {
					path := make([]string, len(stack))
					for i, f := range stack {
						path[i] = f.name
					}
					return nil, &CircularDependencyError{Path: cyclePath(path, dep)}
				}
				onPath[dep] = true
				stack = append(stack, frame{name: dep})
				continue
			}

			delete(onPath, top.name)
			visited[top.name] = true
			order = append(order, top.name)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

// cyclePath extracts the cycle from the current DFS path, closing it with name.
func cyclePath(path []string, name string) []string {
	start := 0
	for i, n := range path {
		if n == name {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	return append(cycle, name)
}

// EvaluationOrder exposes the dependency order for diagnostics.
func (e *Engine) EvaluationOrder(params []types.Parameter) ([]string, error) {
	if err := e.checkLimits(params); err != nil {
		return nil, err
	}
	order, err := EvaluationOrder(params)
	if err != nil {
		e.logger.Error("evaluation order failed", "error", err)
		return nil, err
	}
	return order, nil
}
