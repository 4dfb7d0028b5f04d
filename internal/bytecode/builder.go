package bytecode

import "encoding/binary"

// builder accumulates one function's instruction stream, with a simple
// backpatch mechanism for forward jumps (an `if`/`while`/short-circuit
// target is not known until the jumped-over code has itself been
// emitted).
type builder struct {
	code []byte
}

func (b *builder) pos() int { return len(b.code) }

func (b *builder) op(o Op) {
	b.code = append(b.code, byte(o))
}

func (b *builder) imm32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	b.code = append(b.code, buf[:]...)
}

// opImm32 emits an opcode followed by a single 4-byte immediate.
func (b *builder) opImm32(o Op, v int32) {
	b.op(o)
	b.imm32(v)
}

// opImm32x2 emits an opcode followed by two 4-byte immediates, used by
// Call(func_id, arity) and CallBuiltin(builtin_id, arity).
func (b *builder) opImm32x2(o Op, a, c int32) {
	b.op(o)
	b.imm32(a)
	b.imm32(c)
}

// reserveJump emits a jump opcode with a placeholder offset and returns the
// byte position of that placeholder so it can be patched once the target
// is known.
func (b *builder) reserveJump(o Op) int {
	b.op(o)
	pos := b.pos()
	b.imm32(0)
	return pos
}

// patchJump overwrites the 4-byte placeholder at pos with the relative
// offset from the end of that placeholder to the current end of the code
// stream (i.e. to "here").
func (b *builder) patchJump(pos int) {
	offset := int32(b.pos() - (pos + 4))
	binary.LittleEndian.PutUint32(b.code[pos:pos+4], uint32(offset))
}

// patchJumpTo patches the placeholder at pos to jump to the explicit target
// byte offset (used for loop back-edges and for `continue`, whose target,
// a while loop's condition or a for loop's step, is known by the time the
// loop's jumps are patched).
func (b *builder) patchJumpTo(pos, target int) {
	offset := int32(target - (pos + 4))
	binary.LittleEndian.PutUint32(b.code[pos:pos+4], uint32(offset))
}
