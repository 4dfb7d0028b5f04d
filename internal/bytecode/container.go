package bytecode

// Wire value tags, per spec.md §4.6 / §6.2. Bit-exact, never reordered.
const (
	TagInt    = 0
	TagFloat  = 1
	TagBool   = 2
	TagString = 3
	TagArray  = 4
	TagUnit   = 5
)

// Magic and version are the first eight bytes of every `.skbc` image.
var Magic = [4]byte{'S', 'K', 'B', 'C'}

const Version uint32 = 1

// Value is one constant-pool entry. Only the field matching Tag is
// meaningful.
type Value struct {
	Tag   byte
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Arr   []Value
}

func IntValue(v int64) Value      { return Value{Tag: TagInt, Int: v} }
func FloatValue(v float64) Value  { return Value{Tag: TagFloat, Float: v} }
func BoolValue(v bool) Value      { return Value{Tag: TagBool, Bool: v} }
func StringValue(v string) Value  { return Value{Tag: TagString, Str: v} }
func ArrayValue(v []Value) Value  { return Value{Tag: TagArray, Arr: v} }
func UnitValue() Value            { return Value{Tag: TagUnit} }

// Function is one compiled function's bytecode: name, arity, local slot
// count, instruction stream, and an optional per-instruction source line
// table (parallel to Code's instruction boundaries; empty when omitted).
type Function struct {
	Name      string
	Arity     int
	NumLocals int
	Code      []byte
	DebugLines []uint32
}

// StructDef records one struct type's field order, referenced by
// NewStruct's type_id and by name-indexed FieldGet/FieldSet.
type StructDef struct {
	Name       string
	FieldNames []string
}

// Program is a fully assembled, not-yet-serialized bytecode image: the
// constant pool (in the order Emit first uses each constant), and the
// struct and function tables, both name-sorted (spec.md §4.5's
// determinism requirement).
type Program struct {
	Constants []Value
	Structs   []StructDef
	Functions []Function
	EntryFunc int // index into Functions of the entry point ("main")
}
