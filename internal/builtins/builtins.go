// Package builtins is the stable registry of Skepa's built-in package
// surface (spec.md §6.4): every built-in's numeric id, qualified name, and
// signature shape. internal/sema consults this table to type-check calls
// and to resolve `CallBuiltin` targets; internal/vm consults the same ids
// to dispatch execution. Keeping the table in one neutral package (rather
// than, say, inside sema or vm) is what lets both sides agree on ids
// without importing each other.
package builtins

import "github.com/skepa-lang/skepa/internal/types"

// Shape distinguishes how a builtin's argument/return types are checked.
type Shape int

const (
	// Fixed builtins have a static, monomorphic signature: every
	// parameter and the return type are known in advance.
	Fixed Shape = iota
	// Polymorphic builtins (the arr/vec families) operate over an
	// Array/Vec receiver whose element type varies per call site;
	// sema validates these with dedicated per-builtin logic instead of a
	// static signature.
	Polymorphic
	// Variadic builtins (io.format, io.printf) take a literal format
	// string followed by a variable tail whose types are checked against
	// the format specifiers when the format argument is itself a string
	// literal.
	Variadic
)

// Signature describes one built-in's call-checking shape.
type Signature struct {
	ID       int
	Package  string
	Name     string // unqualified
	Shape    Shape
	Params   []*types.Type // meaningful only when Shape == Fixed
	Return   *types.Type
	MinArgs  int // meaningful for Polymorphic/Variadic
}

// QualifiedName is "<package>.<name>", the form used for lookup and for
// diagnostics.
func (s *Signature) QualifiedName() string { return s.Package + "." + s.Name }

// Builtin ids. Stable and never reordered once assigned: they are embedded
// directly in emitted bytecode (spec.md §4.8).
const (
	IOPrint = iota
	IOPrintln
	IOPrintInt
	IOPrintFloat
	IOPrintBool
	IOPrintString
	IOReadLine
	IOFormat
	IOPrintf

	StrLen
	StrContains
	StrStartsWith
	StrEndsWith
	StrTrim
	StrToLower
	StrToUpper
	StrIndexOf
	StrLastIndexOf
	StrSlice
	StrReplace
	StrRepeat
	StrIsEmpty

	ArrLen
	ArrIsEmpty
	ArrContains
	ArrIndexOf
	ArrCount
	ArrFirst
	ArrLast
	ArrJoin
	ArrReverse
	ArrSlice
	ArrSum
	ArrMin
	ArrMax
	ArrSort
	ArrDistinct

	DatetimeNowUnix
	DatetimeNowMillis
	DatetimeFromUnix
	DatetimeFromMillis
	DatetimeParseUnix
	DatetimeYear
	DatetimeMonth
	DatetimeDay
	DatetimeHour
	DatetimeMinute
	DatetimeSecond

	RandomSeed
	RandomInt
	RandomFloat

	OSCwd
	OSPlatform
	OSSleep
	OSExecShell
	OSExecShellOut

	FSExists
	FSReadText
	FSWriteText
	FSAppendText
	FSMkdirAll
	FSRemoveFile
	FSRemoveDirAll
	FSJoin

	VecNew
	VecLen
	VecPush
	VecGet
	VecSet
	VecDelete

	numBuiltins
)

var (
	i64 = types.Int()
	f64 = types.Float()
	b   = types.Bool()
	str = types.String()
	void = types.Void()
)

// Table is every builtin's signature, indexed by its id.
var Table [numBuiltins]*Signature

// ByName resolves "<package>.<name>" to its signature.
var ByName = map[string]*Signature{}

func reg(id int, pkg, name string, shape Shape, minArgs int, params []*types.Type, ret *types.Type) {
	sig := &Signature{ID: id, Package: pkg, Name: name, Shape: shape, Params: params, Return: ret, MinArgs: minArgs}
	Table[id] = sig
	ByName[sig.QualifiedName()] = sig
}

func init() {
	reg(IOPrint, "io", "print", Fixed, 0, []*types.Type{str}, void)
	reg(IOPrintln, "io", "println", Fixed, 0, []*types.Type{str}, void)
	reg(IOPrintInt, "io", "printInt", Fixed, 0, []*types.Type{i64}, void)
	reg(IOPrintFloat, "io", "printFloat", Fixed, 0, []*types.Type{f64}, void)
	reg(IOPrintBool, "io", "printBool", Fixed, 0, []*types.Type{b}, void)
	reg(IOPrintString, "io", "printString", Fixed, 0, []*types.Type{str}, void)
	reg(IOReadLine, "io", "readLine", Fixed, 0, nil, str)
	reg(IOFormat, "io", "format", Variadic, 1, nil, str)
	reg(IOPrintf, "io", "printf", Variadic, 1, nil, void)

	reg(StrLen, "str", "len", Fixed, 0, []*types.Type{str}, i64)
	reg(StrContains, "str", "contains", Fixed, 0, []*types.Type{str, str}, b)
	reg(StrStartsWith, "str", "startsWith", Fixed, 0, []*types.Type{str, str}, b)
	reg(StrEndsWith, "str", "endsWith", Fixed, 0, []*types.Type{str, str}, b)
	reg(StrTrim, "str", "trim", Fixed, 0, []*types.Type{str}, str)
	reg(StrToLower, "str", "toLower", Fixed, 0, []*types.Type{str}, str)
	reg(StrToUpper, "str", "toUpper", Fixed, 0, []*types.Type{str}, str)
	reg(StrIndexOf, "str", "indexOf", Fixed, 0, []*types.Type{str, str}, i64)
	reg(StrLastIndexOf, "str", "lastIndexOf", Fixed, 0, []*types.Type{str, str}, i64)
	reg(StrSlice, "str", "slice", Fixed, 0, []*types.Type{str, i64, i64}, str)
	reg(StrReplace, "str", "replace", Fixed, 0, []*types.Type{str, str, str}, str)
	reg(StrRepeat, "str", "repeat", Fixed, 0, []*types.Type{str, i64}, str)
	reg(StrIsEmpty, "str", "isEmpty", Fixed, 0, []*types.Type{str}, b)

	// arr/vec builtins are Polymorphic: the receiver's element type is
	// substituted per call site by sema, so Params/Return here are
	// placeholders recording arity only.
	reg(ArrLen, "arr", "len", Polymorphic, 1, nil, i64)
	reg(ArrIsEmpty, "arr", "isEmpty", Polymorphic, 1, nil, b)
	reg(ArrContains, "arr", "contains", Polymorphic, 2, nil, b)
	reg(ArrIndexOf, "arr", "indexOf", Polymorphic, 2, nil, i64)
	reg(ArrCount, "arr", "count", Polymorphic, 2, nil, i64)
	reg(ArrFirst, "arr", "first", Polymorphic, 1, nil, nil)
	reg(ArrLast, "arr", "last", Polymorphic, 1, nil, nil)
	reg(ArrJoin, "arr", "join", Polymorphic, 2, nil, str)
	reg(ArrReverse, "arr", "reverse", Polymorphic, 1, nil, nil)
	reg(ArrSlice, "arr", "slice", Polymorphic, 3, nil, nil)
	reg(ArrSum, "arr", "sum", Polymorphic, 1, nil, nil)
	reg(ArrMin, "arr", "min", Polymorphic, 1, nil, nil)
	reg(ArrMax, "arr", "max", Polymorphic, 1, nil, nil)
	reg(ArrSort, "arr", "sort", Polymorphic, 1, nil, nil)
	reg(ArrDistinct, "arr", "distinct", Polymorphic, 1, nil, nil)

	reg(DatetimeNowUnix, "datetime", "nowUnix", Fixed, 0, nil, i64)
	reg(DatetimeNowMillis, "datetime", "nowMillis", Fixed, 0, nil, i64)
	reg(DatetimeFromUnix, "datetime", "fromUnix", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeFromMillis, "datetime", "fromMillis", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeParseUnix, "datetime", "parseUnix", Fixed, 0, []*types.Type{str}, i64)
	reg(DatetimeYear, "datetime", "year", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeMonth, "datetime", "month", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeDay, "datetime", "day", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeHour, "datetime", "hour", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeMinute, "datetime", "minute", Fixed, 0, []*types.Type{i64}, i64)
	reg(DatetimeSecond, "datetime", "second", Fixed, 0, []*types.Type{i64}, i64)

	reg(RandomSeed, "random", "seed", Fixed, 0, []*types.Type{i64}, void)
	reg(RandomInt, "random", "int", Fixed, 0, []*types.Type{i64, i64}, i64)
	reg(RandomFloat, "random", "float", Fixed, 0, nil, f64)

	reg(OSCwd, "os", "cwd", Fixed, 0, nil, str)
	reg(OSPlatform, "os", "platform", Fixed, 0, nil, str)
	reg(OSSleep, "os", "sleep", Fixed, 0, []*types.Type{i64}, void)
	reg(OSExecShell, "os", "execShell", Fixed, 0, []*types.Type{str}, i64)
	reg(OSExecShellOut, "os", "execShellOut", Fixed, 0, []*types.Type{str}, str)

	reg(FSExists, "fs", "exists", Fixed, 0, []*types.Type{str}, b)
	reg(FSReadText, "fs", "readText", Fixed, 0, []*types.Type{str}, str)
	reg(FSWriteText, "fs", "writeText", Fixed, 0, []*types.Type{str, str}, void)
	reg(FSAppendText, "fs", "appendText", Fixed, 0, []*types.Type{str, str}, void)
	reg(FSMkdirAll, "fs", "mkdirAll", Fixed, 0, []*types.Type{str}, void)
	reg(FSRemoveFile, "fs", "removeFile", Fixed, 0, []*types.Type{str}, void)
	reg(FSRemoveDirAll, "fs", "removeDirAll", Fixed, 0, []*types.Type{str}, void)
	reg(FSJoin, "fs", "join", Fixed, 0, []*types.Type{str, str}, str)

	reg(VecNew, "vec", "new", Polymorphic, 0, nil, nil)
	reg(VecLen, "vec", "len", Polymorphic, 1, nil, i64)
	reg(VecPush, "vec", "push", Polymorphic, 2, nil, void)
	reg(VecGet, "vec", "get", Polymorphic, 2, nil, nil)
	reg(VecSet, "vec", "set", Polymorphic, 3, nil, void)
	reg(VecDelete, "vec", "delete", Polymorphic, 2, nil, nil)
}
