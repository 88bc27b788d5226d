package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.String())
	assert.Equal(t, "Mon Jan 15 2024", d.DisplayString())

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d := DateOf(time.Date(2024, 3, 1, 23, 59, 0, 0, loc))
	assert.Equal(t, "2024-03-01", d.String())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.February, 1)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"Thu Feb 01 2024"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d))

	require.NoError(t, json.Unmarshal([]byte(`"2024-02-01"`), &back))
	assert.True(t, back.Equal(d))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
}

func TestLogFilter_Apply(t *testing.T) {
	exercises := []Exercise{
		{Description: "run", Duration: 30, Date: NewDate(2024, 1, 1)},
		{Description: "swim", Duration: 45, Date: NewDate(2024, 1, 15)},
		{Description: "bike", Duration: 60, Date: NewDate(2024, 2, 1)},
	}
	from := NewDate(2024, 1, 10)
	to := NewDate(2024, 1, 31)

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"no filter", LogFilter{}, []string{"run", "swim", "bike"}},
		{"range", LogFilter{From: &from, To: &to}, []string{"swim"}},
		{"from only", LogFilter{From: &from}, []string{"swim", "bike"}},
		{"to only", LogFilter{To: &to}, []string{"run", "swim"}},
		{"limit keeps insertion order", LogFilter{Limit: 1}, []string{"run"}},
		{"limit larger than set", LogFilter{Limit: 10}, []string{"run", "swim", "bike"}},
		{"inclusive bounds", LogFilter{From: &exercises[0].Date, To: &exercises[0].Date}, []string{"run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(exercises)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.Description)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError(MsgUserNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, MsgUserNotFound, MessageOf(err))

	cause := errors.New("connection refused")
	transient := NewTransientError(cause)
	assert.True(t, IsTransient(transient))
	assert.ErrorIs(t, transient, cause)

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, MsgInternal, MessageOf(errors.New("boom")))
	assert.Equal(t, "conflict", KindConflict.String())
}

func TestNormalizeUsername(t *testing.T) {
	// "é" как одна кодовая точка и как e + комбинируемый акцент
	assert.Equal(t, "caf\u00e9", NormalizeUsername("  cafe\u0301 "))
	assert.Equal(t, "", NormalizeUsername("   "))
}

func TestCollections(t *testing.T) {
	assert.Equal(t, "artifacts/app/public/data/users", UsersCollection("app"))
	assert.Equal(t, "artifacts/app/public/data/users/u1/logs", LogsCollection("app", "u1"))

	base := DocumentQuery{Collection: "c"}
	q1 := base.Where("a", OpEqual, 1)
	q2 := base.Where("b", OpEqual, 2)
	assert.Len(t, base.Filters, 0)
	assert.Equal(t, "a", q1.Filters[0].Field)
	assert.Equal(t, "b", q2.Filters[0].Field)
}
