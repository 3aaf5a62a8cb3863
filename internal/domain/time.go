package domain

import (
	"encoding/json"
	"time"
)

const (
	// Wire layouts used throughout the persisted document.
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// Timestamp marshals as "YYYY-MM-DD HH:MM:SS".
type Timestamp time.Time

func NewTimestamp(t time.Time) Timestamp { return Timestamp(t) }

func (ts Timestamp) Time() time.Time { return time.Time(ts) }

func (ts Timestamp) String() string { return ts.Time().Format(TimestampLayout) }

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return err
	}
	*ts = Timestamp(t)
	return nil
}

// Date marshals as "YYYY-MM-DD".
type Date time.Time

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}
