package instance

import "patchwork.dev/launcher/pkg/game/component"

// Decoration is the row's icon/decoration role, derived from the
// aggregate problem severity of the component in that row.
type Decoration int

const (
	DecorationNone Decoration = iota
	DecorationWarning
	DecorationError
)

// RowFlags mirrors the flags a GUI table model attaches to a row.
type RowFlags struct {
	Selectable bool
	Enabled    bool
}

// RowCount returns the number of rows in the list's row model.
func (l *ComponentList) RowCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.components)
}

// Flags returns the row-model flags for row: every row is selectable
// and enabled, matching the contract regardless of component state.
func (l *ComponentList) Flags(row int) RowFlags {
	return RowFlags{Selectable: true, Enabled: true}
}

// Data returns the row-model text for (row, column): column 0 is the
// component's name, column 1 its version with " (Custom)" appended when
// the component is custom.
func (l *ComponentList) Data(row, column int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row >= len(l.components) {
		return ""
	}
	c := l.components[row]

	switch column {
	case 0:
		return c.Name()
	case 1:
		if c.IsCustom() {
			return c.Version() + " (Custom)"
		}
		return c.Version()
	default:
		return ""
	}
}

// Decoration returns the decoration role for row's column 0: the
// component's own problem severity, mapped to warning/error/none.
func (l *ComponentList) Decoration(row int) Decoration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row >= len(l.components) {
		return DecorationNone
	}
	switch l.components[row].ProblemSeverity() {
	case component.SeverityError:
		return DecorationError
	case component.SeverityWarning:
		return DecorationWarning
	default:
		return DecorationNone
	}
}
