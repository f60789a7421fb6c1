package vmcore

import (
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// compositeOps handles Array/Struct/Map construction and manipulation.
var compositeOps = map[opcode.Opcode]func(*VM) error{
	opcode.ARRAYSIZE:    opArraySize,
	opcode.PACK:         opPack,
	opcode.UNPACK:       opUnpack,
	opcode.PICKITEM:     opPickItem,
	opcode.SETITEM:      opSetItem,
	opcode.NEWARRAY:     opNewArray,
	opcode.NEWSTRUCT:    opNewStruct,
	opcode.NEWMAP:       opNewMap,
	opcode.APPEND:       opAppend,
	opcode.REVERSEITEMS: opReverseItems,
	opcode.REMOVE:       opRemove,
	opcode.HASKEY:       opHasKey,
	opcode.KEYS:         opKeys,
	opcode.VALUES:       opValues,
}

func popArray(v *VM) (*stackitem.Array, error) {
	it, err := v.estack.Pop()
	if err != nil {
		return nil, err
	}
	switch a := it.(type) {
	case *stackitem.Array:
		return a, nil
	case *stackitem.Struct:
		return &a.Array, nil
	}
	return nil, fmt.Errorf("%w: expected Array or Struct", ErrInvalidCast)
}

func popMap(v *VM) (*stackitem.Map, error) {
	it, err := v.estack.Pop()
	if err != nil {
		return nil, err
	}
	m, ok := it.(*stackitem.Map)
	if !ok {
		return nil, fmt.Errorf("%w: expected Map", ErrInvalidCast)
	}
	return m, nil
}

// opArraySize reports the element count of an Array/Struct, or the byte
// length of a ByteArray (the classic VM overloads ARRAYSIZE for both).
func opArraySize(v *VM) error {
	it, err := v.estack.Pop()
	if err != nil {
		return err
	}
	switch a := it.(type) {
	case *stackitem.Array:
		v.estack.PushVal(a.Len())
	case *stackitem.Struct:
		v.estack.PushVal(a.Len())
	case *stackitem.Map:
		v.estack.PushVal(a.Len())
	default:
		b, err := it.TryBytes()
		if err != nil {
			return fmt.Errorf("%w: ARRAYSIZE operand", ErrInvalidCast)
		}
		v.estack.PushVal(len(b))
	}
	return nil
}

func opPack(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	items := make([]stackitem.Item, n)
	for i := 0; i < n; i++ {
		it, err := v.estack.Pop()
		if err != nil {
			return err
		}
		items[i] = it
	}
	v.estack.Push(stackitem.NewArray(items))
	return nil
}

func opUnpack(v *VM) error {
	arr, err := popArray(v)
	if err != nil {
		return err
	}
	for i := arr.Len() - 1; i >= 0; i-- {
		v.estack.Push(arr.At(i))
	}
	v.estack.PushVal(arr.Len())
	return nil
}

func opPickItem(v *VM) error {
	it, err := v.estack.Pop()
	if err != nil {
		return err
	}
	container, err := v.estack.Pop()
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *stackitem.Map:
		val, ok := c.Get(it)
		if !ok {
			return fmt.Errorf("%w: PICKITEM key not found", ErrInvalidCast)
		}
		v.estack.Push(val)
		return nil
	default:
		idx, err := it.TryInteger()
		if err != nil {
			return fmt.Errorf("%w: PICKITEM index", ErrInvalidCast)
		}
		i := int(idx.Int64())
		switch a := container.(type) {
		case *stackitem.Array:
			if i < 0 || i >= a.Len() {
				return fmt.Errorf("%w: PICKITEM index %d", ErrScriptBounds, i)
			}
			v.estack.Push(a.At(i))
			return nil
		case *stackitem.Struct:
			if i < 0 || i >= a.Len() {
				return fmt.Errorf("%w: PICKITEM index %d", ErrScriptBounds, i)
			}
			v.estack.Push(a.At(i))
			return nil
		}
		b, err := container.TryBytes()
		if err != nil {
			return fmt.Errorf("%w: PICKITEM container", ErrInvalidCast)
		}
		if i < 0 || i >= len(b) {
			return fmt.Errorf("%w: PICKITEM index %d", ErrScriptBounds, i)
		}
		v.estack.PushVal([]byte{b[i]})
		return nil
	}
}

func opSetItem(v *VM) error {
	val, err := v.estack.Pop()
	if err != nil {
		return err
	}
	key, err := v.estack.Pop()
	if err != nil {
		return err
	}
	container, err := v.estack.Pop()
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *stackitem.Map:
		c.Set(key, val)
		return nil
	case *stackitem.Array:
		idx, err := key.TryInteger()
		if err != nil {
			return fmt.Errorf("%w: SETITEM index", ErrInvalidCast)
		}
		i := int(idx.Int64())
		if i < 0 || i >= c.Len() {
			return fmt.Errorf("%w: SETITEM index %d", ErrScriptBounds, i)
		}
		c.Set(i, val)
		return nil
	case *stackitem.Struct:
		idx, err := key.TryInteger()
		if err != nil {
			return fmt.Errorf("%w: SETITEM index", ErrInvalidCast)
		}
		i := int(idx.Int64())
		if i < 0 || i >= c.Len() {
			return fmt.Errorf("%w: SETITEM index %d", ErrScriptBounds, i)
		}
		c.Set(i, val)
		return nil
	}
	return fmt.Errorf("%w: SETITEM container", ErrInvalidCast)
}

func opNewArray(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = stackitem.NewBool(false)
	}
	v.estack.Push(stackitem.NewArray(items))
	return nil
}

func opNewStruct(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = stackitem.NewBool(false)
	}
	v.estack.Push(stackitem.NewStruct(items))
	return nil
}

func opNewMap(v *VM) error {
	v.estack.Push(stackitem.NewMap())
	return nil
}

func opAppend(v *VM) error {
	val, err := v.estack.Pop()
	if err != nil {
		return err
	}
	arr, err := popArray(v)
	if err != nil {
		return err
	}
	arr.Append(val)
	return nil
}

func opReverseItems(v *VM) error {
	arr, err := popArray(v)
	if err != nil {
		return err
	}
	for i, j := 0, arr.Len()-1; i < j; i, j = i+1, j-1 {
		a, b := arr.At(i), arr.At(j)
		arr.Set(i, b)
		arr.Set(j, a)
	}
	return nil
}

func opRemove(v *VM) error {
	key, err := v.estack.Pop()
	if err != nil {
		return err
	}
	container, err := v.estack.Pop()
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *stackitem.Map:
		c.Delete(key)
		return nil
	case *stackitem.Array:
		idx, err := key.TryInteger()
		if err != nil {
			return fmt.Errorf("%w: REMOVE index", ErrInvalidCast)
		}
		i := int(idx.Int64())
		if i < 0 || i >= c.Len() {
			return fmt.Errorf("%w: REMOVE index %d", ErrScriptBounds, i)
		}
		c.Remove(i)
		return nil
	}
	return fmt.Errorf("%w: REMOVE container", ErrInvalidCast)
}

func opHasKey(v *VM) error {
	key, err := v.estack.Pop()
	if err != nil {
		return err
	}
	container, err := v.estack.Pop()
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *stackitem.Map:
		_, ok := c.Get(key)
		v.estack.Push(stackitem.NewBool(ok))
		return nil
	case *stackitem.Array:
		idx, err := key.TryInteger()
		if err != nil {
			return fmt.Errorf("%w: HASKEY index", ErrInvalidCast)
		}
		i := int(idx.Int64())
		v.estack.Push(stackitem.NewBool(i >= 0 && i < c.Len()))
		return nil
	}
	return fmt.Errorf("%w: HASKEY container", ErrInvalidCast)
}

func opKeys(v *VM) error {
	m, err := popMap(v)
	if err != nil {
		return err
	}
	elems, _ := m.Value().([]stackitem.MapElement)
	keys := make([]stackitem.Item, len(elems))
	for i, e := range elems {
		keys[i] = e.Key
	}
	v.estack.Push(stackitem.NewArray(keys))
	return nil
}

func opValues(v *VM) error {
	m, err := popMap(v)
	if err != nil {
		return err
	}
	elems, _ := m.Value().([]stackitem.MapElement)
	vals := make([]stackitem.Item, len(elems))
	for i, e := range elems {
		vals[i] = e.Value
	}
	v.estack.Push(stackitem.NewArray(vals))
	return nil
}
