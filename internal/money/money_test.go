package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := Parse("12.34")
	require.NoError(t, err)
	require.Equal(t, int64(1234), m.Cents())
	require.Equal(t, "12.34", m.String())

	m, err = Parse("-0.05")
	require.NoError(t, err)
	require.Equal(t, int64(-5), m.Cents())

	m, err = Parse("100")
	require.NoError(t, err)
	require.Equal(t, int64(10000), m.Cents())
	require.Equal(t, "100.00", m.String())

	_, err = Parse("1.005")
	require.Error(t, err)

	_, err = Parse("abc")
	require.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	t.Parallel()

	a := MustParse("10.10")
	b := MustParse("0.20")
	require.Equal(t, "10.30", a.Add(b).String())
	require.Equal(t, "9.90", a.Sub(b).String())
	require.Equal(t, "-10.10", a.Neg().String())
	require.True(t, a.Sub(a).IsZero())
	require.True(t, a.Neg().IsNegative())
	require.Equal(t, 1, a.Cmp(b))

	// the classic float trap: 0.1 + 0.2 must be exactly 0.3
	require.True(t, MustParse("0.1").Add(MustParse("0.2")).Equal(MustParse("0.3")))
}

func TestFromCentsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, cents := range []int64{0, 1, -1, 99, -100, 123456789} {
		require.Equal(t, cents, FromCents(cents).Cents())
	}
}

func TestSum(t *testing.T) {
	t.Parallel()

	total := Sum([]Money{MustParse("1.10"), MustParse("2.20"), MustParse("-0.30")})
	require.Equal(t, "3.00", total.String())
	require.True(t, Sum(nil).IsZero())
}
