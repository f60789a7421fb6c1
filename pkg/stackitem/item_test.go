package stackitem

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeWrapsGoValues(t *testing.T) {
	require.Equal(t, IntegerT, Make(5).Type())
	require.Equal(t, BooleanT, Make(true).Type())
	require.Equal(t, ByteArrayT, Make([]byte("hi")).Type())
	require.Equal(t, ByteArrayT, Make("hi").Type())
}

func TestByteArrayEqualsComparesContents(t *testing.T) {
	a := NewByteArray([]byte{1, 2, 3})
	b := NewByteArray([]byte{1, 2, 3})
	c := NewByteArray([]byte{1, 2, 4})
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}

func TestBigIntegerTryBytesRoundTrips(t *testing.T) {
	n := NewBigInteger(big.NewInt(12345))
	raw, err := n.TryBytes()
	require.NoError(t, err)
	back := BytesToBigInt(raw)
	require.Equal(t, int64(12345), back.Int64())
}

func TestArrayAppendAndRemove(t *testing.T) {
	arr := NewArray([]Item{Make(1), Make(2)})
	arr.Append(Make(3))
	require.Equal(t, 3, arr.Len())
	arr.Remove(1)
	require.Equal(t, 2, arr.Len())
	n, err := arr.At(1).TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(3), n.Int64())
}

func TestStructDupCopiesSlice(t *testing.T) {
	s := NewStruct([]Item{Make(1), Make(2)})
	cp := s.Dup().(*Struct)
	cp.Append(Make(3))
	require.Equal(t, 2, s.Len())
	require.Equal(t, 3, cp.Len())
}

func TestStructEqualsComparesElementwise(t *testing.T) {
	a := NewStruct([]Item{Make(1), Make("x")})
	b := NewStruct([]Item{Make(1), Make("x")})
	c := NewStruct([]Item{Make(1), Make("y")})
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap()
	m.Set(Make("k"), Make(1))
	v, ok := m.Get(Make("k"))
	require.True(t, ok)
	n, err := v.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(1), n.Int64())

	m.Delete(Make("k"))
	_, ok = m.Get(Make("k"))
	require.False(t, ok)
}

func TestArrayTryBytesFails(t *testing.T) {
	arr := NewArray(nil)
	_, err := arr.TryBytes()
	require.ErrorIs(t, err, ErrInvalidConversion)
}
