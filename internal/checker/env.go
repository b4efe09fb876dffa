package checker

import (
	"github.com/nx-lang/nx-go/internal/types"
)

// env maps names to types during body checking. Globals (functions) live in
// the root frame; blocks and loops push child frames.
type env struct {
	parent *env
	vars   map[string]types.Type
}

func newEnv(parent *env) *env {
	return &env{parent: parent, vars: map[string]types.Type{}}
}

func (e *env) bind(name string, t types.Type) {
	e.vars[name] = t
}

func (e *env) lookup(name string) (types.Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}
