package report

// Span is a byte-exact range of source text used to annotate diagnostics.
// Both line and column numbers are zero-indexed; the end position is
// exclusive of the final character, matching the lexer's token spans.
type Span struct {
	File      string
	StartLine, StartCol int
	EndLine, EndCol     int
}

// SpanOver returns a span that covers both a and b.
func SpanOver(a, b *Span) *Span {
	return &Span{
		File:      a.File,
		StartLine: a.StartLine,
		StartCol:  a.StartCol,
		EndLine:   b.EndLine,
		EndCol:    b.EndCol,
	}
}
