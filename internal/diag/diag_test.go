package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nx-lang/nx-go/internal/source"
)

func TestBuildersArePure(t *testing.T) {
	base := Errorf(source.NewSpan(0, 3), "E0001", "base message")
	labeled := base.WithLabel(source.NewSpan(5, 7), StyleSecondary, "related here")
	noted := labeled.WithNote("try %q instead", "this")

	assert.Empty(t, base.Labels)
	assert.Empty(t, base.Notes)
	assert.Len(t, labeled.Labels, 1)
	assert.Empty(t, labeled.Notes)
	assert.Len(t, noted.Notes, 1)
	assert.Equal(t, `try "this" instead`, noted.Notes[0])
}

func TestSeverityHelpers(t *testing.T) {
	ds := []Diagnostic{
		Errorf(source.Span{}, "E1", "a"),
		Warningf(source.Span{}, "W1", "b"),
		Infof(source.Span{}, "I1", "c"),
	}
	assert.True(t, HasErrors(ds))
	assert.False(t, HasErrors(ds[1:]))
	assert.Equal(t, 1, CountSeverity(ds, SeverityWarning))
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
}

func TestJSONRoundTrip(t *testing.T) {
	d := Errorf(source.NewSpan(4, 9), "E1001", "undefined identifier 'foo'").
		WithFile(2).
		WithLabel(source.NewSpan(1, 2), StyleSecondary, "defined here").
		WithNote("did you mean 'for'?")

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestJSONStableFields(t *testing.T) {
	d := Warningf(source.NewSpan(0, 1), "W2001", "unused binding")
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "warning", raw["severity"])
	assert.Equal(t, "W2001", raw["code"])
	assert.Equal(t, "unused binding", raw["message"])
	require.Contains(t, raw, "span")
}
