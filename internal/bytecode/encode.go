package bytecode

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Encode serializes prog into the `.skbc` wire format of spec.md §4.6.
// Little-endian throughout.
func Encode(prog *Program) []byte {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	writeU32(&buf, Version)

	writeU32(&buf, uint32(len(prog.Constants)))
	for _, c := range prog.Constants {
		encodeValue(&buf, c)
	}

	writeU32(&buf, uint32(len(prog.Structs)))
	for _, s := range prog.Structs {
		writeString(&buf, s.Name)
		writeU32(&buf, uint32(len(s.FieldNames)))
		for _, f := range s.FieldNames {
			writeString(&buf, f)
		}
	}

	writeU32(&buf, uint32(len(prog.Functions)))
	for _, f := range prog.Functions {
		writeString(&buf, f.Name)
		writeU32(&buf, uint32(f.Arity))
		writeU32(&buf, uint32(f.NumLocals))
		writeU32(&buf, uint32(len(f.Code)))
		buf.Write(f.Code)
		writeU32(&buf, uint32(len(f.DebugLines)))
		for _, l := range f.DebugLines {
			writeU32(&buf, l)
		}
	}

	writeU32(&buf, uint32(prog.EntryFunc))

	return buf.Bytes()
}

func encodeValue(buf *bytes.Buffer, v Value) {
	buf.WriteByte(v.Tag)
	switch v.Tag {
	case TagInt:
		writeU64(buf, uint64(v.Int))
	case TagFloat:
		writeU64(buf, math.Float64bits(v.Float))
	case TagBool:
		if v.Bool {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case TagString:
		writeString(buf, v.Str)
	case TagArray:
		writeU32(buf, uint32(len(v.Arr)))
		for _, el := range v.Arr {
			encodeValue(buf, el)
		}
	case TagUnit:
		// no payload
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}
