package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDMY(t *testing.T) {
	t.Run("TwoDigitYear", func(t *testing.T) {
		d, err := ParseDMY("2/1/21")
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2021, Month: time.January, Day: 2}, d)
		assert.Equal(t, "2021-01-02", d.ISO())
	})

	t.Run("FourDigitYear", func(t *testing.T) {
		d, err := ParseDMY("31/12/2021")
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2021, Month: time.December, Day: 31}, d)
	})

	t.Run("ImpossibleMonth", func(t *testing.T) {
		_, err := ParseDMY("31/13/21")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDate))
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, s := range []string{"", "1/2", "a/b/c", "1/2/3/4"} {
			_, err := ParseDMY(s)
			assert.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
		}
	})
}

func TestNewDate(t *testing.T) {
	_, err := NewDate(2021, time.February, 30)
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err := NewDate(2020, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, d.Weekday())
}

func TestDateOrdering(t *testing.T) {
	a := MustDate(2021, time.May, 31)
	b := MustDate(2021, time.June, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, b.Compare(MustDate(2021, time.June, 1)))
}

func TestDiagnostics(t *testing.T) {
	var sink Diagnostics
	sink.Add(DiagSchemeEraMismatch, MustDate(2021, time.June, 2), "scheme %s replaced by %s", "2.0DHA", "2.0TD")
	sink.Add(DiagPriceCached, MustDate(2021, time.June, 2), "served from store")

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, DiagSchemeEraMismatch, events[0].Kind)
	assert.Contains(t, events[0].Message, "2.0TD")

	// nil sink drops silently
	var nilSink *Diagnostics
	nilSink.Add(DiagPriceFetched, Date{}, "dropped")
	assert.Nil(t, nilSink.Events())
}
