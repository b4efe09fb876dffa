// Package syntax defines the lossless concrete syntax tree produced by the
// parser. Nodes are immutable once built, carry byte spans into the original
// source, and keep error nodes in place so downstream phases can keep working
// on partially broken input.
package syntax

// Kind classifies a CST node. The set is closed: every construct the grammar
// can produce has exactly one kind, and malformed regions get KindError.
type Kind int

const (
	KindError Kind = iota

	// Top level
	KindModule
	KindImport
	KindTypeDef
	KindFunctionDef
	KindParam

	// Markup
	KindElement            // <N attrs> children </N>
	KindElementSelfClosing // <N attrs />
	KindElementTypedText   // <N:T attrs> text content </N>
	KindElementRawText     // <N:T raw attrs> opaque text </N>
	KindTagName            // qualified name, possibly dotted
	KindProperty           // key=value inside a tag
	KindTextRun            // maximal run of text chunks, entities, escapes
	KindInterpolation      // { expr } inside content

	// Expressions
	KindLiteralExpr
	KindIdentExpr
	KindBinaryExpr
	KindPrefixExpr
	KindMemberExpr
	KindCallExpr
	KindGroupExpr
	KindUnitExpr
	KindBlockExpr
	KindArrayExpr
	KindIndexExpr
	KindIfExpr     // if E : A else : B /if
	KindIfIsExpr   // if E is { arms } /if
	KindSwitchExpr // switch [E] case … /switch
	KindForExpr    // for I[, J] in E : body /for
	KindMatchArm   // patterns : expr
	KindElseArm    // else : expr  |  default : expr
	KindPattern    // literal or qualified name

	// Statements
	KindLetStmt
	KindExprStmt

	// Type references
	KindNamedType
	KindArrayType
	KindNullableType
	KindSequenceType
	KindFunctionType
)

var kindNames = map[Kind]string{
	KindError:              "Error",
	KindModule:             "Module",
	KindImport:             "Import",
	KindTypeDef:            "TypeDef",
	KindFunctionDef:        "FunctionDef",
	KindParam:              "Param",
	KindElement:            "Element",
	KindElementSelfClosing: "ElementSelfClosing",
	KindElementTypedText:   "ElementTypedText",
	KindElementRawText:     "ElementRawText",
	KindTagName:            "TagName",
	KindProperty:           "Property",
	KindTextRun:            "TextRun",
	KindInterpolation:      "Interpolation",
	KindLiteralExpr:        "LiteralExpr",
	KindIdentExpr:          "IdentExpr",
	KindBinaryExpr:         "BinaryExpr",
	KindPrefixExpr:         "PrefixExpr",
	KindMemberExpr:         "MemberExpr",
	KindCallExpr:           "CallExpr",
	KindGroupExpr:          "GroupExpr",
	KindUnitExpr:           "UnitExpr",
	KindBlockExpr:          "BlockExpr",
	KindArrayExpr:          "ArrayExpr",
	KindIndexExpr:          "IndexExpr",
	KindIfExpr:             "IfExpr",
	KindIfIsExpr:           "IfIsExpr",
	KindSwitchExpr:         "SwitchExpr",
	KindForExpr:            "ForExpr",
	KindMatchArm:           "MatchArm",
	KindElseArm:            "ElseArm",
	KindPattern:            "Pattern",
	KindLetStmt:            "LetStmt",
	KindExprStmt:           "ExprStmt",
	KindNamedType:          "NamedType",
	KindArrayType:          "ArrayType",
	KindNullableType:       "NullableType",
	KindSequenceType:       "SequenceType",
	KindFunctionType:       "FunctionType",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsElement reports whether the kind is one of the element node shapes.
func (k Kind) IsElement() bool {
	switch k {
	case KindElement, KindElementSelfClosing, KindElementTypedText, KindElementRawText:
		return true
	}
	return false
}

// IsExpr reports whether the kind is an expression node.
func (k Kind) IsExpr() bool {
	switch k {
	case KindLiteralExpr, KindIdentExpr, KindBinaryExpr, KindPrefixExpr,
		KindMemberExpr, KindCallExpr, KindGroupExpr, KindUnitExpr,
		KindBlockExpr, KindArrayExpr, KindIndexExpr, KindIfExpr,
		KindIfIsExpr, KindSwitchExpr, KindForExpr, KindInterpolation,
		KindError:
		return true
	}
	return k.IsElement()
}

// IsTypeRef reports whether the kind is a type reference node.
func (k Kind) IsTypeRef() bool {
	switch k {
	case KindNamedType, KindArrayType, KindNullableType, KindSequenceType,
		KindFunctionType, KindError:
		return true
	}
	return false
}
