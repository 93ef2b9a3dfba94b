package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an open mapping of named attributes with preserved key order.
// Breach payloads have no fixed schema across providers, so values form a
// generic tree: nil, bool, json.Number, string, []any, or nested *Record.
// Key order matters downstream: the CSV renderer derives its column set
// from the first record's keys in insertion order.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Set stores value under key, appending the key if it is new.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Delete removes key and its value. Missing keys are a no-op.
func (r *Record) Delete(key string) {
	if r == nil {
		return
	}
	if _, exists := r.values[key]; !exists {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := NewRecord()
	for _, k := range r.keys {
		out.Set(k, CloneValue(r.values[k]))
	}
	return out
}

// CloneValue deep-copies a record field value. Stores use it so cached
// documents never alias values held by callers.
func CloneValue(v any) any {
	switch val := v.(type) {
	case *Record:
		return val.Clone()
	case []*Record:
		out := make([]*Record, len(val))
		for i, rec := range val {
			out[i] = rec.Clone()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		// Scalars (nil, bool, string, json.Number) are immutable.
		return v
	}
}

// MarshalJSON writes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", k, err)
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object, preserving key order. Nested objects
// become *Record, arrays []any, numbers json.Number.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}

	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// decodeObject consumes object members up to and including the closing brace.
func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("record: non-string key %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("record: field %q: %w", key, err)
		}
		rec.Set(key, val)
	}
	// Closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	items := make([]any, 0)
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, val)
	}
	// Closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		// nil, bool, string, json.Number.
		return tok, nil
	}
}

// UnmarshalRecords parses a JSON array of objects into records.
func UnmarshalRecords(data []byte) ([]*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("records: expected JSON array, got %v", tok)
	}

	records := make([]*Record, 0)
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		rec, ok := val.(*Record)
		if !ok {
			return nil, fmt.Errorf("records: array element is not an object")
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return records, nil
}
