package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadJSONRecords reads a list of objects from a JSON file. dataPath is a
// dot-separated key path to the list ("data", "result.rows"); empty means the
// document itself is the list. Integers stay int64, other numbers float64.
func LoadJSONRecords(path, dataPath string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json fixture: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json fixture: %w", err)
	}

	if dataPath != "" {
		for _, key := range strings.Split(dataPath, ".") {
			obj, ok := doc.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("json path %q: %q is not an object key", dataPath, key)
			}
			if doc, ok = obj[key]; !ok {
				return nil, fmt.Errorf("json path %q: key %q missing", dataPath, key)
			}
		}
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("json path %q: expected a list, got %T", dataPath, doc)
	}

	ds := &Dataset{Rows: make([]Record, 0, len(items))}
	seen := make(map[string]bool)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected an object, got %T", i, item)
		}
		rec := make(Record, len(obj))
		for k, v := range obj {
			if !seen[k] {
				seen[k] = true
				ds.Columns = append(ds.Columns, k)
			}
			rec[k] = jsonValue(v)
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds, nil
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, inner := range x {
			x[k] = jsonValue(inner)
		}
	case []any:
		for i, inner := range x {
			x[i] = jsonValue(inner)
		}
	}
	return v
}
