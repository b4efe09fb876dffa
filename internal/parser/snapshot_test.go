package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// Snapshot tests pin the CST shape for representative programs so structural
// regressions show up as reviewable diffs.
func TestSnapshotCST(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"arithmetic function", "let <add a:int b:int /> = { a + b }"},
		{"conditional", "let <max a:int b:int /> = { if a > b : a else : b /if }"},
		{"for loop", "let <squares n:int[] /> = { for x in n : x * x /for }"},
		{"match", `let <icon s:string /> = { if s is { "ok": 1 "warn": 2 /if } }`},
		{"markup", "let <g name:string /> = { <p>Hello {name}</p> }"},
		{"typed text raw", "let <c /> = { <code:string raw>x = \\{1\\}</code> }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseStr(tt.src, tt.name+".nx")
			require.True(t, res.IsOk(), "diagnostics: %v", res.Errors)
			snaps.MatchSnapshot(t, res.Tree.Dump())
		})
	}
}

func TestSnapshotDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"mismatched tags", "<a><b></a></b>"},
		{"broken signature", "let <f = 1"},
		{"missing operand", "let <f /> = { 1 + }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseStr(tt.src, tt.name+".nx")
			require.False(t, res.IsOk())
			var rendered string
			for _, d := range res.Errors {
				rendered += d.Severity.String() + "[" + d.Code + "]: " + d.Message + "\n"
			}
			snaps.MatchSnapshot(t, rendered)
		})
	}
}
