package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/renderwatch/internal/diff"
	"github.com/pstuifzand/renderwatch/internal/locate"
	"github.com/pstuifzand/renderwatch/internal/model"
	"github.com/pstuifzand/renderwatch/internal/theme"
)

type recorder struct {
	entries []Entry
}

func (r *recorder) Write(e Entry) {
	r.entries = append(r.entries, e)
}

func newTestEmitter(sink Sink) *Emitter {
	return NewEmitter(sink, theme.NewPalette(), theme.Default(), diff.NewSerializer(), locate.DefaultEditor())
}

func TestEmitTitleAndToken(t *testing.T) {
	rec := &recorder{}
	e := newTestEmitter(rec)
	snap := model.NewSnapshot()
	observed := model.NewRecord(model.BlockOf("x", 1), nil)

	entries := e.Emit("App", "header", model.Report{{Kind: model.FirstObservation}}, snap, observed, nil)

	require.Len(t, entries, 1)
	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]

	assert.Equal(t, 1, entry.Token)
	assert.Equal(t, "%cApp %cheader %c#1", entry.Title.Markup())
	assert.Equal(t, []string{
		"color: black; background: hsl(0, 100%, 50%); padding: 0 1em;",
		"color: white; background: hsl(210, 100%, 50%); padding: 0 1em;",
		"color: white; background: red; padding: 0 1em;",
	}, entry.Title.Styles())
	assert.Equal(t, "first rendering", entry.Message)
	assert.Equal(t, LevelDebug, entry.Level)
	assert.Equal(t, "App header #1 first rendering", entry.Line())
}

func TestEmitWithoutDetails(t *testing.T) {
	e := newTestEmitter(nil)
	entries := e.Emit("App", "", model.Report{{Kind: model.Unchanged}}, model.NewSnapshot(), model.NewRecord(nil, nil), nil)

	require.Len(t, entries, 1)
	assert.Equal(t, "%cApp %c#1", entries[0].Title.Markup())
}

func TestTokensIncreasePerInvocation(t *testing.T) {
	rec := &recorder{}
	e := newTestEmitter(rec)
	snap := model.NewSnapshot()
	observed := model.NewRecord(nil, nil)

	e.Emit("App", "", model.Report{{Kind: model.FirstObservation}}, snap, observed, nil)
	e.Emit("App", "", model.Report{
		{Kind: model.NewKey, Block: model.BlockProps, Key: "a", Value: 1},
		{Kind: model.DeletedKey, Block: model.BlockProps, Key: "b"},
	}, snap, observed, nil)
	e.Emit("App", "", model.Report{{Kind: model.Unchanged}}, snap, observed, nil)

	var tokens []int
	for _, entry := range rec.entries {
		tokens = append(tokens, entry.Token)
	}
	assert.Equal(t, []int{1, 2, 2, 3}, tokens)
	assert.Same(t, rec.entries[1].Payload, rec.entries[2].Payload)
}

func TestDeepChangeGoesToErrorLevel(t *testing.T) {
	e := newTestEmitter(nil)
	entries := e.Emit("App", "", model.Report{{Kind: model.DeepChangeOnly, SerializedOld: "a", SerializedNew: "b"}},
		model.NewSnapshot(), model.NewRecord(nil, nil), nil)

	require.Len(t, entries, 1)
	assert.Equal(t, LevelError, entries[0].Level)
	assert.Equal(t, "deep change", entries[0].Message)
}

func TestLinkIsAttachedWhenLocationSettles(t *testing.T) {
	e := newTestEmitter(nil)
	pending := locate.Settled(locate.Location{File: "src/App.js"})

	entries := e.Emit("App", "", model.Report{{Kind: model.FirstObservation}}, model.NewSnapshot(), model.NewRecord(nil, nil), pending)
	e.Wait()

	payload := entries[0].Payload
	assert.True(t, payload.Resolved())
	assert.Equal(t,
		"http://localhost:3000/__open-stack-frame-in-editor?fileName=src%2FApp.js&lineNumber=1&colNumber=1",
		payload.OpenInEditor())
}

func TestUnknownLocationLeavesLinkEmpty(t *testing.T) {
	e := newTestEmitter(nil)
	pending := locate.Settled(locate.Location{})

	entries := e.Emit("App", "", model.Report{{Kind: model.Unchanged}}, model.NewSnapshot(), model.NewRecord(nil, nil), pending)
	e.Wait()

	assert.True(t, entries[0].Payload.Resolved())
	assert.Equal(t, "", entries[0].Payload.OpenInEditor())
}

func TestPayloadSerialization(t *testing.T) {
	e := newTestEmitter(nil)
	snap := model.NewSnapshot()
	snap.Props.Set("count", 41)
	observed := model.NewRecord(model.BlockOf("count", 42), nil)

	entries := e.Emit("Counter", "", model.Report{{Kind: model.ChangedValue, Block: model.BlockProps, Key: "count", OldValue: 41, NewValue: 42}}, snap, observed, nil)

	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Payload.Serialized, "Observed")
	assert.Contains(t, entries[0].Payload.Serialized, "42")
	assert.Equal(t, []any{"newValue:", 42, "oldValue:", 41}, entries[0].Args)
	assert.Equal(t, "Counter #1 new value for : props.count newValue: 42 oldValue: 41", entries[0].Line())
}
