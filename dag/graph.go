package dag

import (
	"sort"

	"github.com/kbukum/yake/logger"
	"github.com/kbukum/yake/target"
)

// Graph is the dependency adjacency of a target tree, keyed by command path.
type Graph struct {
	tree       *target.Tree
	order      []string
	position   map[string]int
	deps       map[string][]string
	dependents map[string][]string
	log        *logger.Logger
}

// Build resolves the depends list of every command in tree. The first
// reference that does not resolve fails the whole build.
func Build(tree *target.Tree) (*Graph, error) {
	entries := tree.AllCommands()
	g := &Graph{
		tree:       tree,
		order:      make([]string, 0, len(entries)),
		position:   make(map[string]int, len(entries)),
		deps:       make(map[string][]string, len(entries)),
		dependents: make(map[string][]string),
		log:        logger.Nop(),
	}

	for i, e := range entries {
		g.order = append(g.order, e.Path)
		g.position[e.Path] = i

		seen := make(map[string]bool, len(e.Target.Depends))
		var deps []string
		for _, ref := range e.Target.Depends {
			dep, err := tree.Resolve(ref, e.Path)
			if err != nil {
				return nil, err
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			deps = append(deps, dep)
		}
		g.deps[e.Path] = deps
	}

	// Walking in declared order keeps every dependents list sorted by position.
	for _, p := range g.order {
		for _, d := range g.deps[p] {
			g.dependents[d] = append(g.dependents[d], p)
		}
	}

	return g, nil
}

// WithLogger sets the logger used to report computed schedules.
func (g *Graph) WithLogger(log *logger.Logger) *Graph {
	if log != nil {
		g.log = log.WithComponent("dag")
	}
	return g
}

// Tree returns the tree the graph was built from.
func (g *Graph) Tree() *target.Tree { return g.tree }

// Nodes returns every command path in declared order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the resolved dependencies of path in declared order.
func (g *Graph) Dependencies(path string) []string {
	return clone(g.deps[path])
}

// Dependents returns the commands that depend directly on path, in declared order.
func (g *Graph) Dependents(path string) []string {
	return clone(g.dependents[path])
}

// Levels groups commands by dependency depth using Kahn's algorithm. With
// no paths it covers every command; otherwise only the given commands and
// their transitive dependencies, so cycles elsewhere in the tree are not
// reported. Commands within one level do not depend on each other. Each
// level is sorted by declaration order.
func (g *Graph) Levels(paths ...string) ([][]string, error) {
	if len(paths) == 0 {
		paths = g.order
	}
	// The walk surfaces any cycle with its path before Kahn runs.
	closure, err := g.walk(paths)
	if err != nil {
		return nil, err
	}

	inDegree := make(map[string]int, len(closure))
	for _, p := range closure {
		inDegree[p] = len(g.deps[p])
	}

	var queue []string
	for _, p := range g.order {
		if d, ok := inDegree[p]; ok && d == 0 {
			queue = append(queue, p)
		}
	}

	var levels [][]string
	for len(queue) > 0 {
		levels = append(levels, queue)

		var next []string
		for _, p := range queue {
			for _, dep := range g.dependents[p] {
				if _, ok := inDegree[dep]; !ok {
					continue
				}
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return g.position[next[i]] < g.position[next[j]] })
		queue = next
	}

	return levels, nil
}

func clone(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
