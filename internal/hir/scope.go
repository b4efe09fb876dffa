package hir

import (
	"sort"

	"github.com/nx-lang/nx-go/internal/source"
)

// SymbolKind classifies what a name resolves to.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolVariable
	SymbolParameter
	SymbolType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolType:
		return "type"
	default:
		return "symbol"
	}
}

// Symbol is a resolved name. Type is declared as any to keep hir independent
// of the types package; neither lowering nor the checker sets it (the checker
// tracks binding types in its own environment), so it stays nil.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type any
	Span source.Span // defining occurrence
	// Func links function symbols back to their arena slot.
	Func FunctionId
}

// Scope is one level of the lexical scope tree. Resolution walks from the
// innermost scope outwards; definition shadows outer bindings but conflicts
// with same-scope ones.
type Scope struct {
	outer   *Scope
	symbols map[string]*Symbol
}

// NewScope creates a scope enclosed by outer (nil for the module scope).
func NewScope(outer *Scope) *Scope {
	return &Scope{outer: outer, symbols: make(map[string]*Symbol)}
}

// Outer returns the enclosing scope, or nil at the module level.
func (s *Scope) Outer() *Scope { return s.outer }

// Define binds a symbol in this scope. It returns the previously bound
// symbol and false when the name is already taken here.
func (s *Scope) Define(sym *Symbol) (*Symbol, bool) {
	if prev, ok := s.symbols[sym.Name]; ok {
		return prev, false
	}
	s.symbols[sym.Name] = sym
	return sym, true
}

// Resolve searches this scope and its ancestors for name.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveLocal searches only this scope.
func (s *Scope) ResolveLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Names returns every name visible from this scope, innermost first,
// deduplicated and sorted within each level. Used for suggestions.
func (s *Scope) Names() []string {
	seen := map[string]bool{}
	var out []string
	for cur := s; cur != nil; cur = cur.outer {
		var level []string
		for name := range cur.symbols {
			if !seen[name] {
				seen[name] = true
				level = append(level, name)
			}
		}
		sort.Strings(level)
		out = append(out, level...)
	}
	return out
}

// ClosestName returns the candidate with the smallest edit distance to
// name, provided the distance is small enough to be a plausible typo.
func ClosestName(name string, candidates []string) (string, bool) {
	best, bestDist := "", len(name)/2+1
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		if d := editDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, best != ""
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
