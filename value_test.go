package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualSameVariant(t *testing.T) {
	t.Parallel()

	require.True(t, Equal(Null{}, Null{}))
	require.True(t, Equal(Integer(42), Integer(42)))
	require.True(t, Equal(Real(3.5), Real(3.5)))
	require.True(t, Equal(Text("a"), Text("a")))
	require.True(t, Equal(Blob([]byte{1, 2, 3}), Blob([]byte{1, 2, 3})))

	require.False(t, Equal(Integer(1), Integer(2)))
	require.False(t, Equal(Text("a"), Text("b")))
	require.False(t, Equal(Blob([]byte{1}), Blob([]byte{1, 2})))
}

func TestEqualDistinguishesVariants(t *testing.T) {
	t.Parallel()

	// Zero payloads across variants are still distinct values.
	require.False(t, Equal(Integer(0), Real(0)))
	require.False(t, Equal(Integer(0), Null{}))
	require.False(t, Equal(Real(0), Null{}))
	require.False(t, Equal(Text(""), Null{}))
	require.False(t, Equal(Text(""), Blob{}))
	require.False(t, Equal(Text("1"), Integer(1)))
}

func TestEqualEmptyBlobs(t *testing.T) {
	t.Parallel()

	require.True(t, Equal(Blob{}, Blob{}))
	require.True(t, Equal(Blob(nil), Blob{}))
}

func TestEqualNilValues(t *testing.T) {
	t.Parallel()

	require.False(t, Equal(nil, Null{}))
	require.False(t, Equal(nil, nil))
}
