package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/anonymizer/internal/types"
)

func m(t types.EntityType, start, end int, conf float64) types.Match {
	return types.Match{Type: t, Start: start, End: end, Confidence: conf, Detector: "test"}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Match
		want []types.Match
	}{
		{
			name: "disjoint matches are kept in start order",
			in:   []types.Match{m(types.EntityEmail, 20, 30, 0.9), m(types.EntityPhone, 0, 10, 0.8)},
			want: []types.Match{m(types.EntityPhone, 0, 10, 0.8), m(types.EntityEmail, 20, 30, 0.9)},
		},
		{
			name: "person beats single name regardless of confidence",
			in:   []types.Match{m(types.EntitySingleName, 0, 4, 0.99), m(types.EntityPerson, 0, 10, 0.7)},
			want: []types.Match{m(types.EntityPerson, 0, 10, 0.7)},
		},
		{
			name: "single name beats other types",
			in:   []types.Match{m(types.EntityEmail, 0, 16, 0.95), m(types.EntitySingleName, 5, 9, 0.6)},
			want: []types.Match{m(types.EntitySingleName, 5, 9, 0.6)},
		},
		{
			name: "equal priority higher confidence wins",
			in:   []types.Match{m(types.EntityURL, 0, 20, 0.9), m(types.EntityEmail, 8, 20, 0.95)},
			want: []types.Match{m(types.EntityEmail, 8, 20, 0.95)},
		},
		{
			name: "tie keeps existing",
			in:   []types.Match{m(types.EntityURL, 0, 20, 0.9), m(types.EntityEmail, 8, 24, 0.9)},
			want: []types.Match{m(types.EntityURL, 0, 20, 0.9)},
		},
		{
			name: "touching spans do not overlap",
			in:   []types.Match{m(types.EntityPhone, 0, 5, 0.5), m(types.EntityPhone, 5, 9, 0.9)},
			want: []types.Match{m(types.EntityPhone, 0, 5, 0.5), m(types.EntityPhone, 5, 9, 0.9)},
		},
		{
			name: "empty spans are dropped",
			in:   []types.Match{m(types.EntityPhone, 3, 3, 0.5)},
			want: []types.Match{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.in)
			assert.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
			assert.True(t, NonOverlapping(got))
		})
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	in := []types.Match{m(types.EntityEmail, 10, 20, 0.9), m(types.EntityPhone, 0, 5, 0.9)}
	_ = Resolve(in)
	assert.Equal(t, 10, in[0].Start)
}

func TestResolve_ChainOfOverlaps(t *testing.T) {
	in := []types.Match{
		m(types.EntityURL, 0, 10, 0.5),
		m(types.EntityEmail, 8, 18, 0.9),
		m(types.EntityPhone, 15, 25, 0.95),
		m(types.EntityIPAddress, 30, 40, 0.1),
	}
	got := Resolve(in)
	require.Len(t, got, 2)
	assert.Equal(t, types.EntityPhone, got[0].Type)
	assert.Equal(t, types.EntityIPAddress, got[1].Type)
}

func TestShift(t *testing.T) {
	in := []types.Match{m(types.EntityEmail, 1, 4, 0.9)}
	out := Shift(in, 100)
	assert.Equal(t, 101, out[0].Start)
	assert.Equal(t, 104, out[0].End)
	assert.Equal(t, 1, in[0].Start)
}
