package vmcore

import (
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// execPush handles every literal-push instruction: PUSH0..PUSH16 (which in
// this encoding also covers PUSHBYTES1..75, PUSHDATA1/2/4 and PUSHM1,
// since they all sort at or below PUSH16).
func (v *VM) execPush(op opcode.Opcode, operand []byte) error {
	switch {
	case op == opcode.PUSHM1:
		v.estack.PushVal(-1)
		return nil
	case op >= opcode.PUSH1 && op <= opcode.PUSH16:
		v.estack.PushVal(int(op) - int(opcode.PUSH1) + 1)
		return nil
	case op == opcode.PUSH0:
		v.estack.Push(stackitem.NewByteArray(nil))
		return nil
	case op >= opcode.PUSHBYTES1 && op <= opcode.PUSHBYTES75:
		v.estack.Push(stackitem.NewByteArray(operand))
		return nil
	case op == opcode.PUSHDATA1 || op == opcode.PUSHDATA2 || op == opcode.PUSHDATA4:
		v.estack.Push(stackitem.NewByteArray(operand))
		return nil
	default:
		return ErrInvalidOpcode
	}
}
