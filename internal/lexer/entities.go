package lexer

import (
	"strconv"
	"strings"
)

// namedEntities maps XML/HTML-style entity names to their replacement text.
// The set matches what NX strings and element content accept.
var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   "\"",
	"apos":   "'",
	"nbsp":   " ",
	"lbrace": "{",
	"rbrace": "}",
}

// decodeEntity decodes the entity reference starting at input[start], which
// must point at '&'. It returns the decoded replacement text and the number
// of bytes consumed, or ok=false when the input is not a valid entity.
// Invalid entities are not an error: callers fall back to plain text.
func decodeEntity(input string, start int) (decoded string, size int, ok bool) {
	rest := input[start:]
	if len(rest) < 3 || rest[0] != '&' {
		return "", 0, false
	}
	semi := strings.IndexByte(rest, ';')
	// Entity names are short; a far-away semicolon means this '&' is text.
	if semi < 2 || semi > 10 {
		return "", 0, false
	}
	body := rest[1:semi]

	if body[0] == '#' {
		return decodeNumericEntity(body[1:], semi+1)
	}
	if repl, found := namedEntities[body]; found {
		return repl, semi + 1, true
	}
	return "", 0, false
}

// decodeNumericEntity decodes the digits of &#…; or &#x…; forms.
func decodeNumericEntity(digits string, size int) (string, int, bool) {
	if digits == "" {
		return "", 0, false
	}
	base := 10
	if digits[0] == 'x' || digits[0] == 'X' {
		base = 16
		digits = digits[1:]
		if digits == "" {
			return "", 0, false
		}
	}
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil || n < 0 || n > 0x10FFFF {
		return "", 0, false
	}
	return string(rune(n)), size, true
}
