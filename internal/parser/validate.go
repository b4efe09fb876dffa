package parser

import (
	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// validate runs the post-parse structural checks over a finished CST:
// property-key and parameter-name uniqueness, type modifier exclusivity,
// and non-empty switch forms. Tag matching is enforced during parsing,
// where it also drives recovery.
func validate(tree *syntax.Tree, file source.FileId) []diag.Diagnostic {
	var out []diag.Diagnostic
	tree.Walk(func(n *syntax.Node) bool {
		switch {
		case n.Kind.IsElement():
			out = append(out, checkPropertyKeys(n, file)...)
		case n.Kind == syntax.KindFunctionDef:
			out = append(out, checkParamNames(n, file)...)
		case n.Kind == syntax.KindNullableType:
			if inner := n.FirstOfKind(syntax.KindSequenceType); inner != nil {
				out = append(out, modifierConflict(n, file))
			}
		case n.Kind == syntax.KindSequenceType:
			if inner := n.FirstOfKind(syntax.KindNullableType); inner != nil {
				out = append(out, modifierConflict(n, file))
			}
		case n.Kind == syntax.KindSwitchExpr:
			if len(n.NodesOfKind(syntax.KindMatchArm)) == 0 && len(n.NodesOfKind(syntax.KindElseArm)) == 0 {
				out = append(out, diag.Errorf(n.Span, codeEmptySwitch,
					"switch expression has no cases").WithFile(file))
			}
		}
		return true
	})
	return out
}

func checkPropertyKeys(element *syntax.Node, file source.FileId) []diag.Diagnostic {
	var out []diag.Diagnostic
	seen := map[string]source.Span{}
	for _, prop := range element.NodesOfKind(syntax.KindProperty) {
		key, ok := prop.FirstToken(lexer.IDENT)
		if !ok {
			continue
		}
		if prev, dup := seen[key.Literal]; dup {
			out = append(out, diag.Errorf(key.Span, codeDuplicateProp,
				"duplicate property '%s' on element", key.Literal).
				WithFile(file).
				WithLabel(prev, diag.StyleSecondary, "first set here"))
			continue
		}
		seen[key.Literal] = key.Span
	}
	return out
}

func checkParamNames(fn *syntax.Node, file source.FileId) []diag.Diagnostic {
	var out []diag.Diagnostic
	seen := map[string]source.Span{}
	for _, param := range fn.NodesOfKind(syntax.KindParam) {
		name, ok := param.FirstToken(lexer.IDENT)
		if !ok {
			continue
		}
		if prev, dup := seen[name.Literal]; dup {
			out = append(out, diag.Errorf(name.Span, codeDuplicateParam,
				"duplicate parameter '%s'", name.Literal).
				WithFile(file).
				WithLabel(prev, diag.StyleSecondary, "first declared here"))
			continue
		}
		seen[name.Literal] = name.Span
	}
	return out
}

func modifierConflict(n *syntax.Node, file source.FileId) diag.Diagnostic {
	return diag.Errorf(n.Span, codeTypeModifiers,
		"'?' and '...' cannot be combined on one type").WithFile(file)
}
