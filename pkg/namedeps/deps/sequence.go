package deps

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

// ErrCycle indicates the dependency graph contains a cycle.
var ErrCycle = errors.New("dependency cycle detected")

// CycleError indicates that the graph contains a cycle, preventing a total order.
type CycleError struct {
	// Cycle is one cycle in evaluation direction; the first key is repeated at the end.
	Cycle []string
	// Unresolved contains every key that could not be ordered, in insertion order.
	Unresolved []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s (%d unresolved)",
		strings.Join(e.Cycle, " -> "), len(e.Unresolved))
}

// Is matches ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// Report converts the error to its serializable form.
func (e *CycleError) Report() *models.CycleReport {
	return &models.CycleReport{Cycle: e.Cycle, Unresolved: e.Unresolved}
}

// Sequence returns an evaluation order in which every reference follows all
// the references it depends on, using Kahn's algorithm.
// Among references that are ready at the same time, the one inserted first
// into the graph comes first, so equal input always gives equal output.
// Returns *CycleError if the graph contains a cycle.
func Sequence(g *models.Graph) ([]string, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, len(nodes))
	for _, node := range nodes {
		inDegree[node] = len(g.Dependencies(node))
	}
	dependents := g.Dependents()

	// ready holds insertion indexes, kept sorted
	var ready []int
	for i, node := range nodes {
		if inDegree[node] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		node := nodes[ready[0]]
		ready = ready[1:]
		order = append(order, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				idx := g.Index(dependent)
				pos := sort.SearchInts(ready, idx)
				ready = slices.Insert(ready, pos, idx)
			}
		}
	}

	if len(order) != len(nodes) {
		var unresolved []string
		for _, node := range nodes {
			if inDegree[node] > 0 {
				unresolved = append(unresolved, node)
			}
		}
		return nil, &CycleError{
			Cycle:      findCycle(g, unresolved),
			Unresolved: unresolved,
		}
	}

	return order, nil
}

// findCycle walks unresolved dependencies from the first unresolved key until
// a key repeats. Every unresolved key has at least one unresolved dependency,
// so the walk always closes a loop.
func findCycle(g *models.Graph, unresolved []string) []string {
	if len(unresolved) == 0 {
		return nil
	}
	open := make(map[string]bool, len(unresolved))
	for _, k := range unresolved {
		open[k] = true
	}

	pos := make(map[string]int)
	var path []string
	node := unresolved[0]
	for {
		if at, seen := pos[node]; seen {
			cycle := append([]string{}, path[at:]...)
			cycle = append(cycle, node)
			// path follows "depends on"; report in evaluation direction
			slices.Reverse(cycle)
			return cycle
		}
		pos[node] = len(path)
		path = append(path, node)

		next := ""
		for _, dep := range g.Dependencies(node) {
			if open[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			return path
		}
		node = next
	}
}
