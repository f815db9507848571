// Package model contains the data observed from a tracked instance and the
// snapshot kept for it between invocations
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Block is an insertion-ordered mapping from key to an opaque value.
// A nil *Block behaves as an empty block for every read operation.
type Block struct {
	keys   []string
	values map[string]any
}

// NewBlock creates an empty block
func NewBlock() *Block {
	return &Block{
		keys:   make([]string, 0),
		values: make(map[string]any),
	}
}

// BlockOf builds a block from alternating key/value arguments
func BlockOf(pairs ...any) *Block {
	if len(pairs)%2 != 0 {
		panic("model.BlockOf: odd number of arguments")
	}
	b := NewBlock()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("model.BlockOf: key %v is not a string", pairs[i]))
		}
		b.Set(key, pairs[i+1])
	}
	return b
}

// Set stores value under key. New keys are appended to the key order,
// existing keys keep their position.
func (b *Block) Set(key string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

// Get returns the value stored under key
func (b *Block) Get(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

// Has reports whether key is present
func (b *Block) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Delete removes key from the block
func (b *Block) Delete(key string) {
	if b == nil {
		return
	}
	if _, exists := b.values[key]; !exists {
		return
	}
	delete(b.values, key)
	for idx, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:idx], b.keys[idx+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (b *Block) Keys() []string {
	if b == nil {
		return []string{}
	}
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len returns the number of keys
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Map returns a copy of the block as a plain map. Never nil.
func (b *Block) Map() map[string]any {
	result := make(map[string]any, b.Len())
	if b == nil {
		return result
	}
	for k, v := range b.values {
		result[k] = v
	}
	return result
}

// Clone returns a shallow copy; values are shared with the original
func (b *Block) Clone() *Block {
	c := NewBlock()
	if b == nil {
		return c
	}
	for _, k := range b.keys {
		c.Set(k, b.values[k])
	}
	return c
}

// MarshalJSON encodes the block as a JSON object in key order
func (b *Block) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v, _ := b.Get(k)
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys.
// null decodes to an empty block.
func (b *Block) UnmarshalJSON(data []byte) error {
	*b = *NewBlock()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("block must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode %q: %w", key, err)
		}
		b.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
