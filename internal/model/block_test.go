package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestBlockKeepsInsertionOrder(t *testing.T) {
	b := NewBlock()
	b.Set("zeta", 1)
	b.Set("alpha", 2)
	b.Set("mid", 3)
	b.Set("zeta", 4)

	want := []string{"zeta", "alpha", "mid"}
	if got := b.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected keys %v, got %v", want, got)
	}

	v, ok := b.Get("zeta")
	if !ok || v != 4 {
		t.Errorf("Expected zeta=4, got %v (present=%v)", v, ok)
	}
}

func TestBlockDelete(t *testing.T) {
	b := BlockOf("a", 1, "b", 2, "c", 3)
	b.Delete("b")
	b.Delete("missing")

	if b.Has("b") {
		t.Error("b should have been deleted")
	}
	if got := b.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Expected keys [a c], got %v", got)
	}
}

func TestNilBlockIsEmpty(t *testing.T) {
	var b *Block
	if b.Len() != 0 {
		t.Errorf("Expected nil block to have length 0, got %d", b.Len())
	}
	if b.Has("x") {
		t.Error("nil block should not have keys")
	}
	if m := b.Map(); m == nil || len(m) != 0 {
		t.Errorf("Expected empty non-nil map, got %#v", m)
	}
	if c := b.Clone(); c == nil || c.Len() != 0 {
		t.Error("Clone of nil block should be an empty block")
	}
}

func TestBlockJSONRoundTripKeepsOrder(t *testing.T) {
	input := `{"z":1,"a":{"nested":true},"m":[1,2]}`

	var b Block
	if err := json.Unmarshal([]byte(input), &b); err != nil {
		t.Fatalf("Failed to decode block: %v", err)
	}

	if got := b.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Errorf("Expected keys [z a m], got %v", got)
	}

	out, err := json.Marshal(&b)
	if err != nil {
		t.Fatalf("Failed to encode block: %v", err)
	}
	if string(out) != input {
		t.Errorf("Expected %s, got %s", input, out)
	}
}

func TestBlockUnmarshalRejectsArrays(t *testing.T) {
	var b Block
	if err := json.Unmarshal([]byte(`[1,2]`), &b); err == nil {
		t.Error("Expected an error decoding an array into a block")
	}
}

func TestInvocationJSONNullBlocks(t *testing.T) {
	var inv Invocation
	data := `{"instance":"a","component":"App","observed":{"props":{"x":1},"state":null}}`
	if err := json.Unmarshal([]byte(data), &inv); err != nil {
		t.Fatalf("Failed to decode invocation: %v", err)
	}
	if inv.Observed.Props.Len() != 1 {
		t.Errorf("Expected 1 prop, got %d", inv.Observed.Props.Len())
	}
	if inv.Observed.State.Len() != 0 {
		t.Errorf("Expected null state to be empty, got %d keys", inv.Observed.State.Len())
	}
}

func TestSnapshotTokensStartAtOne(t *testing.T) {
	s := NewSnapshot()
	if s.RenderIndex() != 0 {
		t.Fatalf("Expected unset render index, got %d", s.RenderIndex())
	}
	for want := 1; want <= 3; want++ {
		if got := s.NextToken(); got != want {
			t.Errorf("Expected token %d, got %d", want, got)
		}
	}
}
