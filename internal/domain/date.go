package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DateLayout формат хранения и ввода календарной даты.
	DateLayout = "2006-01-02"
	// DisplayLayout формат даты в ответах API (как toDateString в JS).
	DisplayLayout = "Mon Jan 02 2006"
)

// Date календарная дата без времени суток.
type Date struct {
	t time.Time
}

// NewDate строит дату из года, месяца и дня.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf возвращает календарную дату момента t в его собственной локации.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// String возвращает дату в формате хранения.
func (d Date) String() string { return d.t.Format(DateLayout) }

// DisplayString возвращает дату в формате ответов API.
func (d Date) DisplayString() string { return d.t.Format(DisplayLayout) }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.DisplayString())
}

// UnmarshalJSON принимает оба формата: хранения и отображения.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{DateLayout, DisplayLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			d.t = t
			return nil
		}
	}
	return fmt.Errorf("unsupported date format %q", s)
}
