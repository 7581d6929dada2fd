package filter

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNumberRangeClosed(t *testing.T) {
	r, err := NewNumberRange(ptr(2), ptr(5), true, true)
	require.NoError(t, err)

	assert.True(t, r.Encloses(2))
	assert.True(t, r.Encloses(5))
	assert.True(t, r.Encloses(3))
	assert.False(t, r.Encloses(1))
	assert.False(t, r.Encloses(6))
}

func TestNumberRangeExclusiveBounds(t *testing.T) {
	r, err := NewNumberRange(ptr(2), ptr(5), false, false)
	require.NoError(t, err)

	assert.False(t, r.Encloses(2))
	assert.True(t, r.Encloses(3))
	assert.True(t, r.Encloses(4))
	assert.False(t, r.Encloses(5))
}

func TestNumberRangeOpenEnded(t *testing.T) {
	lt := LessThan(3)
	assert.True(t, lt.Encloses(-100))
	assert.True(t, lt.Encloses(2))
	assert.False(t, lt.Encloses(3))

	ge, err := NewNumberRange(ptr(10), nil, true, false)
	require.NoError(t, err)
	assert.True(t, ge.Encloses(10))
	assert.True(t, ge.Encloses(1_000_000))
	assert.False(t, ge.Encloses(9))
}

func TestNumberRangeInvalid(t *testing.T) {
	_, err := NewNumberRange(nil, nil, true, true)
	assert.Error(t, err)

	_, err = NewNumberRange(ptr(6), ptr(5), true, true)
	assert.Error(t, err)

	r, err := NewNumberRange(ptr(5), ptr(5), true, true)
	require.NoError(t, err)
	assert.True(t, r.Encloses(5))
}

func TestNumberRangeString(t *testing.T) {
	tests := []struct {
		name     string
		min, max *int
		minIncl  bool
		maxIncl  bool
		expected string
	}{
		{"closed", ptr(1), ptr(4), true, true, "1..4"},
		{"less than", nil, ptr(3), false, false, "<3"},
		{"at most", nil, ptr(3), false, true, "<=3"},
		{"greater than", ptr(7), nil, false, false, ">7"},
		{"at least", ptr(7), nil, true, false, ">=7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewNumberRange(tt.min, tt.max, tt.minIncl, tt.maxIncl)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.String())
		})
	}
}

func TestDateRange(t *testing.T) {
	jan1 := civil.Date{Year: 2024, Month: 1, Day: 1}
	jan31 := civil.Date{Year: 2024, Month: 1, Day: 31}

	r, err := NewDateRange(&jan1, &jan31, true, true)
	require.NoError(t, err)
	assert.True(t, r.Encloses(jan1))
	assert.True(t, r.Encloses(jan31))
	assert.True(t, r.Encloses(civil.Date{Year: 2024, Month: 1, Day: 15}))
	assert.False(t, r.Encloses(civil.Date{Year: 2023, Month: 12, Day: 31}))
	assert.False(t, r.Encloses(civil.Date{Year: 2024, Month: 2, Day: 1}))
	assert.Equal(t, "2024-01-01..2024-01-31", r.String())

	before, err := NewDateRange(nil, &jan31, false, false)
	require.NoError(t, err)
	assert.True(t, before.Encloses(jan1))
	assert.False(t, before.Encloses(jan31))
	assert.Equal(t, "<2024-01-31", before.String())

	after, err := NewDateRange(&jan1, nil, false, false)
	require.NoError(t, err)
	assert.False(t, after.Encloses(jan1))
	assert.True(t, after.Encloses(jan31))
	assert.Equal(t, ">2024-01-01", after.String())
}

func TestDateRangeInvalid(t *testing.T) {
	jan1 := civil.Date{Year: 2024, Month: 1, Day: 1}
	dec1 := civil.Date{Year: 2023, Month: 12, Day: 1}

	_, err := NewDateRange(&jan1, &dec1, true, true)
	assert.Error(t, err)

	_, err = NewDateRange(nil, nil, true, true)
	assert.Error(t, err)

	bad := civil.Date{Year: 2024, Month: 2, Day: 30}
	_, err = NewDateRange(&bad, nil, true, true)
	assert.Error(t, err)
}
