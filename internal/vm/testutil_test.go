package vm

import (
	"encoding/binary"

	"github.com/skepa-lang/skepa/internal/bytecode"
)

// bytecodeBuilder is a minimal by-hand instruction-stream builder for
// tests, independent of internal/bytecode's own unexported builder — it
// only needs to emit exactly the opcodes these tests exercise.
type bytecodeBuilder struct {
	code []byte
}

func (b *bytecodeBuilder) op(o bytecode.Op) { b.code = append(b.code, byte(o)) }

func (b *bytecodeBuilder) imm32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	b.code = append(b.code, buf[:]...)
}

func (b *bytecodeBuilder) pushConst(i int32) { b.op(bytecode.OpPushConst); b.imm32(i) }
func (b *bytecodeBuilder) loadLocal(i int32) { b.op(bytecode.OpLoadLocal); b.imm32(i) }
func (b *bytecodeBuilder) storeLocal(i int32) { b.op(bytecode.OpStoreLocal); b.imm32(i) }
func (b *bytecodeBuilder) ret() { b.op(bytecode.OpReturn) }
func (b *bytecodeBuilder) callDirect(funcID, arity int32) {
	b.op(bytecode.OpCall)
	b.imm32(funcID)
	b.imm32(arity)
}

func (b *bytecodeBuilder) bytes() []byte { return b.code }
