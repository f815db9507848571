package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/renderwatch/internal/model"
)

func record(props, state *model.Block) model.Record {
	return model.NewRecord(props, state)
}

func TestFirstObservation(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	report := e.Diff(snap, record(model.BlockOf("x", 1), model.BlockOf("open", true)))

	require.Equal(t, []model.ChangeKind{model.FirstObservation}, report.Kinds())
	assert.False(t, report.Shallow())
	v, ok := snap.Props.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = snap.State.Get("open")
	assert.True(t, ok)
	assert.Equal(t, true, v)
}

func TestFirstObservationWithStateOnly(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	report := e.Diff(snap, record(nil, model.BlockOf("count", 0)))

	assert.Equal(t, []model.ChangeKind{model.FirstObservation}, report.Kinds())
	assert.True(t, snap.State.Has("count"))
}

func TestEmptyFirstCallIsUnchanged(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	report := e.Diff(snap, record(nil, nil))
	assert.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())
}

func TestScenarioChangedValue(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	report := e.Diff(snap, record(model.BlockOf("x", 1), nil))
	require.Equal(t, []model.ChangeKind{model.FirstObservation}, report.Kinds())

	report = e.Diff(snap, record(model.BlockOf("x", 1), nil))
	require.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())

	report = e.Diff(snap, record(model.BlockOf("x", 2), nil))
	require.Len(t, report, 1)
	assert.Equal(t, model.Change{
		Kind:     model.ChangedValue,
		Block:    model.BlockProps,
		Key:      "x",
		OldValue: 1,
		NewValue: 2,
	}, report[0])

	v, _ := snap.Props.Get("x")
	assert.Equal(t, 2, v)
}

func TestScenarioDeletedKeyIsSticky(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	e.Diff(snap, record(model.BlockOf("a", 1), nil))
	report := e.Diff(snap, record(model.NewBlock(), nil))

	require.Len(t, report, 1)
	assert.Equal(t, model.DeletedKey, report[0].Kind)
	assert.Equal(t, model.BlockProps, report[0].Block)
	assert.Equal(t, "a", report[0].Key)

	v, ok := snap.Props.Get("a")
	assert.True(t, ok, "deleted key should be kept in the snapshot")
	assert.Equal(t, 1, v)

	// Still missing on the next call, so reported again
	report = e.Diff(snap, record(model.NewBlock(), nil))
	assert.Equal(t, []model.ChangeKind{model.DeletedKey}, report.Kinds())
}

func TestPruneDeleted(t *testing.T) {
	e := NewEngine(Options{PruneDeleted: true})
	snap := model.NewSnapshot()

	e.Diff(snap, record(model.BlockOf("a", 1, "b", 2), nil))
	report := e.Diff(snap, record(model.BlockOf("b", 2), nil))
	assert.Equal(t, []model.ChangeKind{model.DeletedKey}, report.Kinds())
	assert.False(t, snap.Props.Has("a"))

	report = e.Diff(snap, record(model.BlockOf("b", 2), nil))
	assert.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())
}

func TestPrunedSnapshotIsNotObservedAgain(t *testing.T) {
	e := NewEngine(Options{PruneDeleted: true})
	snap := model.NewSnapshot()

	report := e.Diff(snap, record(model.BlockOf("a", 1), nil))
	assert.Equal(t, []model.ChangeKind{model.FirstObservation}, report.Kinds())

	report = e.Diff(snap, record(model.NewBlock(), nil))
	assert.Equal(t, []model.ChangeKind{model.DeletedKey}, report.Kinds())
	assert.True(t, snap.Empty())

	report = e.Diff(snap, record(model.BlockOf("a", 1), nil))
	assert.Equal(t, []model.ChangeKind{model.NewKey}, report.Kinds())
}

func TestNewKeyThenRoundTrip(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()
	items := []string{"a", "b"}

	e.Diff(snap, record(model.BlockOf("x", 1), nil))
	report := e.Diff(snap, record(model.BlockOf("x", 1), model.BlockOf("items", items)))
	require.Len(t, report, 1)
	assert.Equal(t, model.NewKey, report[0].Kind)
	assert.Equal(t, model.BlockState, report[0].Block)
	assert.Equal(t, "items", report[0].Key)

	report = e.Diff(snap, record(model.BlockOf("x", 1), model.BlockOf("items", items)))
	assert.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())
}

func TestOrderOfEvents(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	e.Diff(snap, record(model.BlockOf("a", 1, "b", 2), model.BlockOf("s", "x")))
	report := e.Diff(snap, record(
		model.BlockOf("b", 3, "c", 4),
		model.BlockOf("s", "y"),
	))

	require.Len(t, report, 4)
	assert.Equal(t, "props.b", report[0].Path())
	assert.Equal(t, model.ChangedValue, report[0].Kind)
	assert.Equal(t, "props.c", report[1].Path())
	assert.Equal(t, model.NewKey, report[1].Kind)
	assert.Equal(t, "props.a", report[2].Path())
	assert.Equal(t, model.DeletedKey, report[2].Kind)
	assert.Equal(t, "state.s", report[3].Path())
	assert.Equal(t, model.ChangedValue, report[3].Kind)
}

func TestFreshReferenceIsAChange(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	e.Diff(snap, record(model.BlockOf("style", map[string]any{"color": "red"}), nil))
	report := e.Diff(snap, record(model.BlockOf("style", map[string]any{"color": "red"}), nil))

	require.Len(t, report, 1)
	assert.Equal(t, model.ChangedValue, report[0].Kind)
}

func TestInPlaceMutationUnderSameReferenceIsUnchanged(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()
	user := map[string]any{"name": "ada"}

	e.Diff(snap, record(model.BlockOf("user", user), nil))
	user["name"] = "grace"

	// The snapshot holds the same map, so both serializations agree
	report := e.Diff(snap, record(model.BlockOf("user", user), nil))
	assert.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())
	assert.Empty(t, snap.Baseline())
}

func TestFrozenBaselineReportsInPlaceMutation(t *testing.T) {
	e := NewEngine(Options{FrozenBaseline: true})
	snap := model.NewSnapshot()
	user := map[string]any{"name": "ada"}

	e.Diff(snap, record(model.BlockOf("user", user), nil))
	user["name"] = "grace"

	report := e.Diff(snap, record(model.BlockOf("user", user), nil))
	require.Len(t, report, 1)
	assert.Equal(t, model.DeepChangeOnly, report[0].Kind)
	assert.Contains(t, report[0].SerializedOld, "ada")
	assert.Contains(t, report[0].SerializedNew, "grace")

	report = e.Diff(snap, record(model.BlockOf("user", user), nil))
	assert.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())
}

func TestKeyOrderDoesNotMatter(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	e.Diff(snap, record(model.BlockOf("a", 1, "b", 2), nil))
	report := e.Diff(snap, record(model.BlockOf("b", 2, "a", 1), nil))
	assert.Equal(t, []model.ChangeKind{model.Unchanged}, report.Kinds())
}

func TestObservedIsNotMutated(t *testing.T) {
	e := NewEngine(Options{})
	snap := model.NewSnapshot()

	e.Diff(snap, record(model.BlockOf("a", 1, "b", 2), nil))
	observed := record(model.BlockOf("a", 5), nil)
	e.Diff(snap, observed)

	assert.Equal(t, []string{"a"}, observed.Props.Keys())
	v, _ := observed.Props.Get("a")
	assert.Equal(t, 5, v)
}

func TestSerializerIsCanonical(t *testing.T) {
	s := NewSerializer()
	a := s.Record(record(model.BlockOf("z", 1, "a", []int{1, 2}), nil))
	b := s.Record(record(model.BlockOf("a", []int{1, 2}, "z", 1), model.NewBlock()))

	assert.Equal(t, a, b)
	assert.Less(t, strings.Index(a, `"a"`), strings.Index(a, `"z"`))
}

func TestMessage(t *testing.T) {
	msg, args := Message(model.Change{Kind: model.ChangedValue, Block: model.BlockProps, Key: "x", OldValue: 1, NewValue: 2})
	assert.Equal(t, "new value for : props.x", msg)
	assert.Equal(t, []any{"newValue:", 2, "oldValue:", 1}, args)

	msg, _ = Message(model.Change{Kind: model.DeletedKey, Block: model.BlockState, Key: "k"})
	assert.Equal(t, "deleted key : state.k", msg)

	msg, _ = Message(model.Change{Kind: model.FirstObservation})
	assert.Equal(t, "first rendering", msg)
}

func TestSummary(t *testing.T) {
	report := model.Report{
		{Kind: model.ChangedValue},
		{Kind: model.NewKey},
		{Kind: model.ChangedValue},
	}
	assert.Equal(t, "2 changed, 1 new, 0 deleted", Summary(report))
	assert.Equal(t, "deep change only", Summary(model.Report{{Kind: model.DeepChangeOnly}}))
}
