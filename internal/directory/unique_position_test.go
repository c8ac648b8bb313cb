package directory

import (
	"encoding/json"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── between ──────────────────────────────────────────────────────────────────

func TestBetween_Ordering(t *testing.T) {
	cases := []struct {
		name string
		a, b []byte
	}{
		{"empty bounds", nil, nil},
		{"unbounded above", []byte{0x80}, nil},
		{"adjacent bytes", []byte{0x10}, []byte{0x11}},
		{"common prefix", []byte{0x10, 0x20}, []byte{0x10, 0x21}},
		{"max byte", []byte{0xff, 0xff}, nil},
		{"short lower", []byte{0x01}, []byte{0x01, 0x00, 0x01}},
		{"zero lower", []byte{}, []byte{0x00, 0x01}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := between(tc.a, tc.b)
			require.NotEmpty(t, got)
			assert.NotEqual(t, byte(0), got[len(got)-1])
			assert.Negative(t, compareBytes(tc.a, got))
			if tc.b != nil {
				assert.Negative(t, compareBytes(got, tc.b))
			}
		})
	}
}

func compareBytes(a, b []byte) int {
	return UniquePosition{key: a}.Compare(UniquePosition{key: b})
}

// ── Before / After / Between ─────────────────────────────────────────────────

func TestPositions_InsertKeepsOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	positions := []UniquePosition{InitialPosition(PositionSuffix("seed"))}

	for i := 0; i < 500; i++ {
		suffix := PositionSuffix(string(rune('a'+i%26)) + string(rune(i)))
		idx := rnd.Intn(len(positions) + 1)

		var p UniquePosition
		switch {
		case idx == 0:
			p = PositionBefore(positions[0], suffix)
		case idx == len(positions):
			p = PositionAfter(positions[len(positions)-1], suffix)
		default:
			p = PositionBetween(positions[idx-1], positions[idx], suffix)
		}
		require.True(t, p.IsValid())

		positions = append(positions, UniquePosition{})
		copy(positions[idx+1:], positions[idx:])
		positions[idx] = p
	}

	assert.True(t, sort.SliceIsSorted(positions, func(i, j int) bool {
		return positions[i].LessThan(positions[j])
	}))
	for i := 1; i < len(positions); i++ {
		assert.True(t, positions[i-1].LessThan(positions[i]), "position %d not after %d", i, i-1)
	}
}

func TestPositionBetween_InvalidBounds(t *testing.T) {
	suffix := PositionSuffix("x")
	p := InitialPosition(PositionSuffix("p"))

	before := PositionBetween(UniquePosition{}, p, suffix)
	assert.True(t, before.LessThan(p))

	after := PositionBetween(p, UniquePosition{}, suffix)
	assert.True(t, p.LessThan(after))
}

func TestPositionFromInt64_PreservesOrder(t *testing.T) {
	values := []int64{-1 << 40, -256, -1, 0, 1, 255, 256, 1 << 20, 1<<62 + 7}
	for i := 1; i < len(values); i++ {
		a := PositionFromInt64(values[i-1], PositionSuffix("a"))
		b := PositionFromInt64(values[i], PositionSuffix("b"))
		assert.True(t, a.LessThan(b), "%d should sort before %d", values[i-1], values[i])
	}
}

func TestUniquePositionFromBytes_Invalid(t *testing.T) {
	assert.False(t, UniquePositionFromBytes(nil).IsValid())
	assert.False(t, UniquePositionFromBytes(make([]byte, positionSuffixLength)).IsValid())
	assert.Equal(t, "INVALID", UniquePosition{}.String())
}

func TestUniquePosition_JSON(t *testing.T) {
	p := InitialPosition(PositionSuffix("json"))

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got UniquePosition
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, p.Equals(got))
}
