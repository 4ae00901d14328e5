package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActualDeduction(t *testing.T) {
	cases := []struct {
		name     string
		required float64
		yield    float64
		want     float64
	}{
		{"unit yield passes through", 0.2, 1.0, 0.2},
		{"batch yield shrinks draw", 0.5, 2.0, 0.25},
		{"fractional yield", 0.3, 1.5, 0.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ActualDeduction(tc.required, tc.yield)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestActualDeductionRejectsNonPositiveYield(t *testing.T) {
	_, err := ActualDeduction(0.2, 0)
	require.Error(t, err)
	_, err = ActualDeduction(0.2, -1.5)
	require.Error(t, err)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.33, Round2(3.3333333))
	assert.Equal(t, 3.34, Round2(3.336))
	assert.Equal(t, 0.6667, Round4(2.0/3.0))
	assert.Equal(t, 0.0, Round4(0))
}
