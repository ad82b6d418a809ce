package activity

import (
	"encoding/json"
	"fmt"
)

type wireRecord struct {
	ID   string          `json:"id"`
	Kind Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the record as {"id","type","data"}.
func (r Record) MarshalJSON() ([]byte, error) {
	var data json.RawMessage = []byte("null")
	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", r.Kind, err)
		}
		data = raw
	}
	return json.Marshal(wireRecord{ID: r.ID, Kind: r.Kind, Data: data})
}

// UnmarshalJSON decodes the payload through the registry. Unregistered kinds
// decode to *Unknown so the rest of a stored list survives.
func (r *Record) UnmarshalJSON(b []byte) error {
	var w wireRecord
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("activity record missing id")
	}
	r.ID = w.ID
	r.Kind = w.Kind

	d, ok := Lookup(w.Kind)
	if !ok {
		r.Payload = &Unknown{kind: w.Kind, Raw: w.Data}
		return nil
	}
	payload := d.New()
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", w.Kind, err)
		}
	}
	r.Payload = payload
	return nil
}

// Encode serializes a list for storage.
func Encode(list List) ([]byte, error) {
	if list == nil {
		list = List{}
	}
	return json.Marshal(list)
}

// Skipped describes a stored record Decode left out of the list.
type Skipped struct {
	Index int
	ID    string
	Err   error
}

// Decode parses a stored list. A record that fails to decode, or repeats an
// earlier id, is skipped and reported instead of failing the whole list.
// Only a document that is not a JSON array is an error.
func Decode(data []byte) (List, []Skipped, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, err
	}
	list := make(List, 0, len(raws))
	var skipped []Skipped
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped = append(skipped, Skipped{Index: i, ID: peekID(raw), Err: err})
			continue
		}
		if seen[r.ID] {
			skipped = append(skipped, Skipped{Index: i, ID: r.ID, Err: ErrDuplicateID})
			continue
		}
		seen[r.ID] = true
		list = append(list, r)
	}
	return list, skipped, nil
}

func peekID(raw json.RawMessage) string {
	var w struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &w)
	return w.ID
}
