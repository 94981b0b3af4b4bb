package db

import (
	"fmt"
	"time"

	"github.com/hylode/hyui/internal/schema"
)

// Timestamp scans a nullable timestamp from either driver. The warehouse
// returns time.Time; the sqlite store may return time.Time or the stored
// text when the column affinity does not convert it.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into Timestamp", src)
}

func (t *Timestamp) parse(s string) error {
	parsed, err := schema.ParseTime(s)
	if err != nil {
		return err
	}
	t.Time, t.Valid = parsed, true
	return nil
}

// Ptr returns nil for NULL.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// DatePtr returns the value as a YYYY-MM-DD string, or nil for NULL.
func (t Timestamp) DatePtr() *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(schema.DateLayout)
	return &s
}
