package gotoprog

import "fmt"

// Location is a source location attached to symbols, expressions and statements.
type Location struct {
	File      string
	Function  string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// NoLocation is the zero location.
var NoLocation = Location{}

// IsNone reports whether the location carries no information.
func (l Location) IsNone() bool {
	return l.File == "" && l.Line == 0
}

func (l Location) String() string {
	if l.IsNone() {
		return "<none>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
