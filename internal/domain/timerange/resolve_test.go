package timerange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agenda-app/server/internal/domain/field"
)

func TestResolvePair(t *testing.T) {
	got, err := Resolve(Payload{
		Start: field.Of("2024-03-01 09:00"),
		End:   field.Of("2024-03-01T10:30Z"),
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), got.Start)
	require.True(t, got.End.Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
}

func TestResolveAliasPriority(t *testing.T) {
	got, err := Resolve(Payload{
		StartDate: field.Of("2024-03-01T08:00"),
		Start:     field.Of("2024-03-01T07:00"),
		EndDate:   field.Of(""),
		End:       field.Of("2024-03-01T09:00"),
	})
	require.NoError(t, err)
	require.Equal(t, 8, got.Start.Hour())
	require.Equal(t, 9, got.End.Hour())
}

func TestResolveTriple(t *testing.T) {
	got, err := Resolve(Payload{
		Date:      field.Of("2024-03-01"),
		StartTime: field.Of("09:00"),
		EndTime:   field.Of("10:30"),
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), got.Start)
	require.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), got.End)
}

func TestResolvePairWinsOverTriple(t *testing.T) {
	got, err := Resolve(Payload{
		Start:     field.Of("2024-03-02T12:00"),
		End:       field.Of("2024-03-02T13:00"),
		Date:      field.Of("2024-03-01"),
		StartTime: field.Of("09:00"),
		EndTime:   field.Of("10:30"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, got.Start.Day())
}

func TestResolveTripleInvalidParts(t *testing.T) {
	tests := []Payload{
		{Date: field.Of("2024-02-30"), StartTime: field.Of("09:00"), EndTime: field.Of("10:00")},
		{Date: field.Of("2024-03-01"), StartTime: field.Of("24:00"), EndTime: field.Of("10:00")},
		{Date: field.Of("2024-03-01"), StartTime: field.Of("09:00"), EndTime: field.Of("10:60")},
		{Date: field.Of("2024-03-01"), StartTime: field.Of("9am"), EndTime: field.Of("10:00")},
	}

	for _, p := range tests {
		_, err := Resolve(p)
		require.True(t, IsFormatError(err), "payload %+v", p)
	}
}

func TestResolveMissingInput(t *testing.T) {
	tests := map[string]Payload{
		"empty":              {},
		"start only":         {Start: field.Of("2024-03-01T09:00")},
		"blank strings":      {Start: field.Of(" "), End: field.Of("")},
		"incomplete triple":  {Date: field.Of("2024-03-01"), StartTime: field.Of("09:00")},
		"null pair":          {StartDate: field.String{Set: true, Null: true}, EndDate: field.String{Set: true, Null: true}},
		"triple blank entry": {Date: field.Of("2024-03-01"), StartTime: field.Of("09:00"), EndTime: field.Of("  ")},
	}

	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(p)
			require.ErrorIs(t, err, ErrMissingInput)
		})
	}
}

func TestRequireOrdered(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.ErrorIs(t, RequireOrdered(start, start), ErrInvalidRange)
	require.ErrorIs(t, RequireOrdered(start, start.Add(-time.Minute)), ErrInvalidRange)
	require.NoError(t, RequireOrdered(start, start.Add(time.Minute)))
}

func TestResolveEqualEndpointsRejectedByOrderCheck(t *testing.T) {
	got, err := Resolve(Payload{
		Start: field.Of("2024-03-01T10:00"),
		End:   field.Of("2024-03-01T10:00"),
	})
	require.NoError(t, err)
	require.ErrorIs(t, RequireOrdered(got.Start, got.End), ErrInvalidRange)
}

func TestResolveUpdate(t *testing.T) {
	current := Range{
		Start: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("no range keys keeps current", func(t *testing.T) {
		got, err := ResolveUpdate(Payload{}, current)
		require.NoError(t, err)
		require.Equal(t, current, got)
	})

	t.Run("full pair replaces", func(t *testing.T) {
		got, err := ResolveUpdate(Payload{
			StartDate: field.Of("2024-04-01T09:00"),
			EndDate:   field.Of("2024-04-01T11:00"),
		}, current)
		require.NoError(t, err)
		require.Equal(t, time.April, got.Start.Month())
		require.Equal(t, 11, got.End.Hour())
	})

	t.Run("half pair is missing input", func(t *testing.T) {
		_, err := ResolveUpdate(Payload{Start: field.Of("2024-04-01T09:00")}, current)
		require.ErrorIs(t, err, ErrMissingInput)
		require.ErrorIs(t, err, ErrMissingPair)
	})

	t.Run("null pair key still counts as sent", func(t *testing.T) {
		_, err := ResolveUpdate(Payload{End: field.String{Set: true, Null: true}}, current)
		require.ErrorIs(t, err, ErrMissingPair)
	})

	t.Run("full triple replaces", func(t *testing.T) {
		got, err := ResolveUpdate(Payload{
			Date:      field.Of("2024-05-02"),
			StartTime: field.Of("14:00"),
			EndTime:   field.Of("15:15"),
		}, current)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC), got.Start)
		require.Equal(t, time.Date(2024, 5, 2, 15, 15, 0, 0, time.UTC), got.End)
	})

	t.Run("partial triple is missing input", func(t *testing.T) {
		_, err := ResolveUpdate(Payload{StartTime: field.Of("14:00")}, current)
		require.ErrorIs(t, err, ErrMissingTriple)
	})
}

func TestPayloadDecodesPresence(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-03-01T09:00","end":null}`), &p))

	require.True(t, p.Start.Set)
	require.False(t, p.Start.Null)
	require.True(t, p.End.Set)
	require.True(t, p.End.Null)
	require.False(t, p.Date.Set)

	_, err := Resolve(p)
	require.ErrorIs(t, err, ErrMissingInput)
}
