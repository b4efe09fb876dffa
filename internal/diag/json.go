package diag

import (
	"encoding/json"

	"github.com/nx-lang/nx-go/internal/source"
)

// Wire shapes mirror Diagnostic field-for-field so diagnostics can cross
// process boundaries without losing fidelity. The shape is stable; additive
// changes only.

type wireSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type wireLabel struct {
	Span    wireSpan `json:"span"`
	Message string   `json:"message"`
	Style   string   `json:"style"`
}

type wireDiagnostic struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code,omitempty"`
	Message  string      `json:"message"`
	Span     wireSpan    `json:"span"`
	File     int32       `json:"file"`
	Labels   []wireLabel `json:"labels,omitempty"`
	Notes    []string    `json:"notes,omitempty"`
}

func styleName(s LabelStyle) string {
	if s == StyleSecondary {
		return "secondary"
	}
	return "primary"
}

func styleFromName(name string) LabelStyle {
	if name == "secondary" {
		return StyleSecondary
	}
	return StylePrimary
}

func severityFromName(name string) Severity {
	switch name {
	case "warning":
		return SeverityWarning
	case "info":
		return SeverityInfo
	default:
		return SeverityError
	}
}

func toWire(d Diagnostic) wireDiagnostic {
	w := wireDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code,
		Message:  d.Message,
		Span:     wireSpan{Start: d.Span.Start, End: d.Span.End},
		File:     int32(d.File),
		Notes:    d.Notes,
	}
	for _, l := range d.Labels {
		w.Labels = append(w.Labels, wireLabel{
			Span:    wireSpan{Start: l.Span.Start, End: l.Span.End},
			Message: l.Message,
			Style:   styleName(l.Style),
		})
	}
	return w
}

func fromWire(w wireDiagnostic) Diagnostic {
	d := Diagnostic{
		Severity: severityFromName(w.Severity),
		Code:     w.Code,
		Message:  w.Message,
		Span:     source.Span{Start: w.Span.Start, End: w.Span.End},
		File:     source.FileId(w.File),
		Notes:    w.Notes,
	}
	for _, l := range w.Labels {
		d.Labels = append(d.Labels, Label{
			Span:    source.Span{Start: l.Span.Start, End: l.Span.End},
			Message: l.Message,
			Style:   styleFromName(l.Style),
		})
	}
	return d
}

// MarshalJSON implements json.Marshaler.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var w wireDiagnostic
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = fromWire(w)
	return nil
}
