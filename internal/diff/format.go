package diff

import (
	"fmt"
	"strings"

	"github.com/pstuifzand/renderwatch/internal/model"
)

// Message returns the human readable text for a change and the values that
// should be shown next to it
func Message(c model.Change) (string, []any) {
	switch c.Kind {
	case model.FirstObservation:
		return "first rendering", nil
	case model.NewKey:
		return fmt.Sprintf("new key : %s", c.Path()), []any{c.Value}
	case model.ChangedValue:
		return fmt.Sprintf("new value for : %s", c.Path()), []any{
			"newValue:", c.NewValue,
			"oldValue:", c.OldValue,
		}
	case model.DeletedKey:
		return fmt.Sprintf("deleted key : %s", c.Path()), nil
	case model.DeepChangeOnly:
		return "deep change", nil
	case model.Unchanged:
		return "unchanged", nil
	}
	return c.Kind.String(), nil
}

// Summary condenses a report into a single line such as
// "2 changed, 1 new, 0 deleted"
func Summary(report model.Report) string {
	var changed, added, deleted int
	for _, c := range report {
		switch c.Kind {
		case model.ChangedValue:
			changed++
		case model.NewKey:
			added++
		case model.DeletedKey:
			deleted++
		case model.FirstObservation, model.Unchanged, model.DeepChangeOnly:
			return headline(c.Kind)
		}
	}
	return fmt.Sprintf("%d changed, %d new, %d deleted", changed, added, deleted)
}

// headline returns the short label for record level events
func headline(kind model.ChangeKind) string {
	return strings.ReplaceAll(kind.String(), "-", " ")
}
