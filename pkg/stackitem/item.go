// Package stackitem implements the tagged-variant values that live on a
// NEO VM evaluation stack: ByteArray, Integer, Boolean, Array, Struct, Map
// and InteropInterface, plus the coercion rules between them.
package stackitem

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidConversion is returned when a TryXxx coercion is impossible.
var ErrInvalidConversion = errors.New("invalid conversion")

// Item is the common interface implemented by every stack item variant.
type Item interface {
	fmt.Stringer
	Value() any
	Dup() Item
	TryBool() (bool, error)
	TryBytes() ([]byte, error)
	TryInteger() (*big.Int, error)
	Equals(Item) bool
	Type() Type
}

// ByteArray is a raw byte sequence.
type ByteArray []byte

// NewByteArray wraps b as a ByteArray item. b is not copied.
func NewByteArray(b []byte) *ByteArray { ba := ByteArray(b); return &ba }

func (b *ByteArray) Value() any       { return []byte(*b) }
func (b *ByteArray) Dup() Item        { cp := make(ByteArray, len(*b)); copy(cp, *b); return &cp }
func (b *ByteArray) Type() Type       { return ByteArrayT }
func (b *ByteArray) String() string   { return "ByteArray" }
func (b *ByteArray) TryBool() (bool, error) {
	for _, x := range *b {
		if x != 0 {
			return true, nil
		}
	}
	return false, nil
}
func (b *ByteArray) TryBytes() ([]byte, error) { return []byte(*b), nil }
func (b *ByteArray) TryInteger() (*big.Int, error) {
	if len(*b) > 32 {
		return nil, fmt.Errorf("%w: integer too large", ErrInvalidConversion)
	}
	return BytesToBigInt(*b), nil
}
func (b *ByteArray) Equals(s Item) bool {
	o, ok := s.(*ByteArray)
	if !ok {
		return false
	}
	if len(*b) != len(*o) {
		return false
	}
	for i := range *b {
		if (*b)[i] != (*o)[i] {
			return false
		}
	}
	return true
}

// BigInteger is an unbounded signed integer.
type BigInteger big.Int

// NewBigInteger wraps n as a BigInteger item.
func NewBigInteger(n *big.Int) *BigInteger { return (*BigInteger)(n) }

func (i *BigInteger) big() *big.Int      { return (*big.Int)(i) }
func (i *BigInteger) Value() any         { return i.big() }
func (i *BigInteger) Dup() Item          { return NewBigInteger(new(big.Int).Set(i.big())) }
func (i *BigInteger) Type() Type         { return IntegerT }
func (i *BigInteger) String() string     { return "Integer" }
func (i *BigInteger) TryBool() (bool, error) { return i.big().Sign() != 0, nil }
func (i *BigInteger) TryBytes() ([]byte, error) { return BigIntToBytes(i.big()), nil }
func (i *BigInteger) TryInteger() (*big.Int, error) { return i.big(), nil }
func (i *BigInteger) Equals(s Item) bool {
	o, ok := s.(*BigInteger)
	if !ok {
		return false
	}
	return i.big().Cmp(o.big()) == 0
}

// Bool is a boolean item.
type Bool bool

// NewBool wraps v as a Bool item.
func NewBool(v bool) *Bool { b := Bool(v); return &b }

func (b *Bool) Value() any     { return bool(*b) }
func (b *Bool) Dup() Item      { return NewBool(bool(*b)) }
func (b *Bool) Type() Type     { return BooleanT }
func (b *Bool) String() string { return "Boolean" }
func (b *Bool) TryBool() (bool, error) { return bool(*b), nil }
func (b *Bool) TryBytes() ([]byte, error) {
	if *b {
		return []byte{1}, nil
	}
	return []byte{}, nil
}
func (b *Bool) TryInteger() (*big.Int, error) {
	if *b {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}
func (b *Bool) Equals(s Item) bool {
	o, ok := s.(*Bool)
	return ok && *b == *o
}

// Array is an ordered, reference-semantics sequence of items.
type Array struct {
	items []Item
}

// NewArray creates an Array item from the given elements. items is not copied.
func NewArray(items []Item) *Array { return &Array{items: items} }

func (a *Array) Value() any     { return a.items }
func (a *Array) Len() int       { return len(a.items) }
func (a *Array) At(i int) Item  { return a.items[i] }
func (a *Array) Append(it Item) { a.items = append(a.items, it) }
func (a *Array) Set(i int, it Item) { a.items[i] = it }
func (a *Array) Remove(i int) {
	a.items = append(a.items[:i], a.items[i+1:]...)
}
func (a *Array) Dup() Item {
	return &Array{items: a.items}
}
func (a *Array) Type() Type     { return ArrayT }
func (a *Array) String() string { return "Array" }
func (a *Array) TryBool() (bool, error) { return true, nil }
func (a *Array) TryBytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: Array to ByteArray", ErrInvalidConversion)
}
func (a *Array) TryInteger() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Array to Integer", ErrInvalidConversion)
}
func (a *Array) Equals(s Item) bool { return a == s }

// Struct is an Array with value-copy semantics on Dup.
type Struct struct {
	Array
}

// NewStruct creates a Struct item from the given elements.
func NewStruct(items []Item) *Struct { return &Struct{Array{items: items}} }

func (s *Struct) Dup() Item {
	cp := make([]Item, len(s.items))
	copy(cp, s.items)
	return &Struct{Array{items: cp}}
}
func (s *Struct) Type() Type     { return StructT }
func (s *Struct) String() string { return "Struct" }
func (s *Struct) Equals(o Item) bool {
	t, ok := o.(*Struct)
	if !ok || len(s.items) != len(t.items) {
		return false
	}
	for i := range s.items {
		if !s.items[i].Equals(t.items[i]) {
			return false
		}
	}
	return true
}

// MapElement is one key/value pair of a Map, in insertion order.
type MapElement struct {
	Key   Item
	Value Item
}

// Map is an ordered key/value store keyed by any comparable item.
type Map struct {
	elems []MapElement
}

// NewMap creates an empty Map item.
func NewMap() *Map { return &Map{} }

func (m *Map) Value() any { return m.elems }
func (m *Map) Len() int   { return len(m.elems) }
func (m *Map) Index(k Item) int {
	for i, e := range m.elems {
		if e.Key.Equals(k) {
			return i
		}
	}
	return -1
}
func (m *Map) Get(k Item) (Item, bool) {
	if i := m.Index(k); i >= 0 {
		return m.elems[i].Value, true
	}
	return nil, false
}
func (m *Map) Set(k, v Item) {
	if i := m.Index(k); i >= 0 {
		m.elems[i].Value = v
		return
	}
	m.elems = append(m.elems, MapElement{Key: k, Value: v})
}
func (m *Map) Delete(k Item) {
	if i := m.Index(k); i >= 0 {
		m.elems = append(m.elems[:i], m.elems[i+1:]...)
	}
}
func (m *Map) Dup() Item { return &Map{elems: m.elems} }
func (m *Map) Type() Type     { return MapT }
func (m *Map) String() string { return "Map" }
func (m *Map) TryBool() (bool, error) { return true, nil }
func (m *Map) TryBytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: Map to ByteArray", ErrInvalidConversion)
}
func (m *Map) TryInteger() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Map to Integer", ErrInvalidConversion)
}
func (m *Map) Equals(s Item) bool { return m == s }

// Interop wraps an opaque host-side value (an iterator, an interop handle)
// that cannot be serialized or meaningfully compared beyond identity.
type Interop struct {
	value any
}

// NewInterop wraps v as an Interop item.
func NewInterop(v any) *Interop { return &Interop{value: v} }

func (i *Interop) Value() any     { return i.value }
func (i *Interop) Dup() Item      { return i }
func (i *Interop) Type() Type     { return InteropT }
func (i *Interop) String() string { return "InteropInterface" }
func (i *Interop) TryBool() (bool, error) { return true, nil }
func (i *Interop) TryBytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: InteropInterface to ByteArray", ErrInvalidConversion)
}
func (i *Interop) TryInteger() (*big.Int, error) {
	return nil, fmt.Errorf("%w: InteropInterface to Integer", ErrInvalidConversion)
}
func (i *Interop) Equals(s Item) bool { return i == s }

// Make builds the appropriate Item for a Go value, following the same
// convenience rules the teacher's stackitem.Make provides for tests and
// argument marshalling.
func Make(v any) Item {
	switch val := v.(type) {
	case Item:
		return val
	case int:
		return NewBigInteger(big.NewInt(int64(val)))
	case int64:
		return NewBigInteger(big.NewInt(val))
	case *big.Int:
		return NewBigInteger(val)
	case []byte:
		return NewByteArray(val)
	case string:
		return NewByteArray([]byte(val))
	case bool:
		return NewBool(val)
	case []Item:
		return NewArray(val)
	default:
		panic(fmt.Sprintf("stackitem.Make: unsupported type %T", v))
	}
}
