package dag

import (
	"strings"

	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/logger"
)

// CycleError reports a dependency cycle. Cycle starts and ends with the
// repeated node, e.g. [a b c a].
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Cycle, " -> ")
}

// ErrorCode implements errors.Coder.
func (e *CycleError) ErrorCode() errors.ErrorCode { return errors.ErrCodeCycle }

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// Schedule returns the execution order for the requested paths. A group
// expands to its descendant commands depth-first. Dependencies are visited in
// declared order and emitted before their dependents; every command appears
// at most once.
func (g *Graph) Schedule(requested ...string) ([]string, error) {
	var roots []string
	for _, r := range requested {
		paths, err := g.tree.Commands(r)
		if err != nil {
			return nil, err
		}
		roots = append(roots, paths...)
	}

	order, err := g.walk(roots)
	if err != nil {
		return nil, err
	}

	g.log.Debug("schedule computed", logger.Fields(
		"requested", requested,
		"schedule", order,
	))
	return order, nil
}

func (g *Graph) walk(roots []string) ([]string, error) {
	marks := make(map[string]mark, len(g.order))
	order := make([]string, 0, len(roots))
	var stack []string

	var visit func(path string) error
	visit = func(path string) error {
		switch marks[path] {
		case done:
			return nil
		case inProgress:
			return &CycleError{Cycle: cycleFrom(stack, path)}
		}

		marks[path] = inProgress
		stack = append(stack, path)
		for _, dep := range g.deps[path] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		marks[path] = done
		order = append(order, path)
		return nil
	}

	for _, r := range roots {
		if err := visit(r); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func cycleFrom(stack []string, repeated string) []string {
	start := 0
	for i, p := range stack {
		if p == repeated {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(stack)-start+1)
	cycle = append(cycle, stack[start:]...)
	return append(cycle, repeated)
}
