package notemap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trilium "github.com/trilium-community/trilium.go"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 1000, ToInt("1000", nil))
	assert.Equal(t, 7, ToInt(7, nil))
	assert.Nil(t, ToInt("not a number", nil))
	assert.Nil(t, ToInt(nil, nil))
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1.5, ToFloat("1.5", nil))
	assert.Equal(t, 3.0, ToFloat(3, nil))
	assert.Nil(t, ToFloat("x", nil))
	assert.Nil(t, ToFloat(nil, nil))
}

func TestToBool(t *testing.T) {
	assert.Equal(t, true, ToBool("true", nil))
	assert.Equal(t, true, ToBool("1", nil))
	assert.Equal(t, false, ToBool("false", nil))
	assert.Nil(t, ToBool("maybe", nil))
	assert.Nil(t, ToBool(nil, nil))
}

func TestToTime(t *testing.T) {
	// The layout Trilium uses for dateCreated and friends.
	got := ToTime("2021-12-31 20:18:11.939+0100", nil)
	require.NotNil(t, got)

	ts, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, "2021-12-31T19:18:11.939Z", ts.UTC().Format("2006-01-02T15:04:05.999Z07:00"))

	assert.Nil(t, ToTime("not a date", nil))
	assert.Nil(t, ToTime(nil, nil))
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ToStringSlice("a, b, c", nil))
	assert.Equal(t, []string{"x"}, ToStringSlice("x", nil))
	assert.Equal(t, []string{"a", "b"}, ToStringSlice(`["a","b"]`, nil))
	assert.Equal(t, []string{"a", "b"}, ToStringSlice([]string{"a", "b"}, nil))
	assert.Equal(t, []string{"1", "2"}, ToStringSlice([]any{1, 2}, nil))
	assert.Nil(t, ToStringSlice("   ", nil))
	assert.Nil(t, ToStringSlice(nil, nil))
}

func TestChain(t *testing.T) {
	double := func(v any, _ *trilium.Note) any {
		n, ok := v.(int)
		if !ok {
			return nil
		}
		return n * 2
	}

	chained := Chain(ToInt, double)
	assert.Equal(t, 2000, chained("1000", nil))
	assert.Nil(t, chained("not a number", nil))
	assert.Nil(t, chained(nil, nil))
}
