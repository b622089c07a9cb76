package probe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrNotArray = errors.New("response body is not a JSON array")

// Record is a decoded row that remembers the order its keys arrived in.
type Record struct {
	Keys   []string
	Values map[string]any
}

func (r *Record) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Schema infers a column type for each key from its sample value.
func (r *Record) Schema() Schema {
	cols := make([]Column, 0, len(r.Keys))
	for _, k := range r.Keys {
		cols = append(cols, Column{Name: k, Type: InferType(r.Values[k])})
	}
	return Schema{Columns: cols}
}

// DecodeFirstRecord reads a JSON array and returns its first element as an
// ordered record. It returns nil for an empty array. Elements after the first
// are validated but not kept.
func DecodeFirstRecord(r io.Reader) (*Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, ErrNotArray
	}

	var first *Record
	for dec.More() {
		if first == nil {
			rec, err := decodeObject(dec)
			if err != nil {
				return nil, err
			}
			first = rec
			continue
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return first, nil
}

func decodeObject(dec *json.Decoder) (*Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode record: expected object, got %v", tok)
	}

	rec := &Record{Values: map[string]any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode record: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode record field %s: %w", key, err)
		}
		val, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("decode record field %s: %w", key, err)
		}
		if _, dup := rec.Values[key]; !dup {
			rec.Keys = append(rec.Keys, key)
		}
		rec.Values[key] = val
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
