package bench

import "io"

// Literal is a fixed byte span copied unchanged from the source template
// (spec §4.2). It carries no distribution state.
type Literal struct {
	text []byte
}

func newLiteral(text []byte) *Literal {
	return &Literal{text: text}
}

func (l *Literal) Kind() SegmentKind { return KindLiteral }

func (l *Literal) Generate(ctx int64, w io.Writer) (int64, error) {
	if len(l.text) == 0 {
		return 0, nil
	}
	n, err := w.Write(l.text)
	if err != nil {
		return int64(n), fatalIO("literal", err)
	}
	return int64(n), nil
}
