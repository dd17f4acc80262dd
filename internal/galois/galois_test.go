package galois

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew_UnsupportedDegree(t *testing.T) {
	var _, err = New(8)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)
}

func TestNew_SupportedDegrees(t *testing.T) {
	for _, m := range []uint{13, 14} {
		var f, err = New(m)
		require.NoError(t, err)
		assert.Equal(t, m, f.M)
		assert.Equal(t, uint(1<<m)-1, f.N)
		assert.Len(t, f.AlphaTo, int(f.N)+1)
		assert.Len(t, f.IndexOf, int(f.N)+1)
	}
}

// Round-trip law from spec.md's GF algebra testable properties:
// alpha_to[index_of[v]] == v for every nonzero v.
func TestField_AlphaIndexRoundTrip(t *testing.T) {
	for _, m := range []uint{13, 14} {
		var f, err = New(m)
		require.NoError(t, err)

		t.Run("", func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				var v = uint16(rapid.IntRange(1, int(f.N)).Draw(t, "v"))
				assert.Equal(t, v, f.AlphaTo[f.IndexOf[v]])
			})
		})
	}
}

// index_of[alpha_to[i]] == i mod n, for every valid log i.
func TestField_IndexAlphaRoundTrip(t *testing.T) {
	for _, m := range []uint{13, 14} {
		var f, err = New(m)
		require.NoError(t, err)

		t.Run("", func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				var i = rapid.IntRange(0, int(f.N)).Draw(t, "i")
				var v = f.AlphaTo[i]
				if v == 0 {
					// alpha_to[n] == 0 by construction; log of zero is undefined.
					assert.Equal(t, int(f.N), i)
					return
				}
				assert.Equal(t, uint16(i%int(f.N)), f.IndexOf[v])
			})
		})
	}
}

func TestField_MulMatchesSquare(t *testing.T) {
	var f, err = New(13)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), f.Mul(0, 5))
	assert.Equal(t, uint16(0), f.Mul(5, 0))

	rapid.Check(t, func(t *rapid.T) {
		var v = uint16(rapid.IntRange(1, int(f.N)).Draw(t, "v"))
		assert.Equal(t, f.Mul(v, v), f.Square(v))
	})
}
