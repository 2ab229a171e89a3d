package route

// Index is the entry point invoked when a route names none.
const Index = "index"

// Positions of a Stack.
const (
	SegPath = iota
	SegSubdir
	SegHandler
	SegEntry
	SegArgs
)

// A Stack is a resolved dispatch target:
// the base directory the handler was found in, its subdirectory, the handler, the entry point,
// then any arguments to invoke the entry point with.
type Stack []string

// NewStack returns the unresolved Stack, four empty strings.
func NewStack() Stack {
	return Stack{"", "", "", ""}
}

func (s Stack) at(i int) string {
	if i < len(s) {
		return s[i]
	}

	return ""
}

// Path returns the base directory of the handler.
func (s Stack) Path() string { return s.at(SegPath) }

// Subdirectory returns the handler subdirectory with a trailing slash, or "".
func (s Stack) Subdirectory() string { return s.at(SegSubdir) }

// Handler returns the handler name.
func (s Stack) Handler() string { return s.at(SegHandler) }

// EntryPoint returns the entry point name as routed.
func (s Stack) EntryPoint() string { return s.at(SegEntry) }

// Args returns the arguments to invoke the entry point with.
func (s Stack) Args() []string {
	if len(s) <= SegArgs {
		return nil
	}

	return append([]string(nil), s[SegArgs:]...)
}

// Clone copies s.
func (s Stack) Clone() Stack {
	return append(Stack(nil), s...)
}

// WithArgs returns a copy of s with args inserted before any existing arguments.
func (s Stack) WithArgs(args ...string) Stack {
	out := make(Stack, 0, len(s)+len(args))
	for i := 0; i < SegArgs; i++ {
		out = append(out, s.at(i))
	}

	out = append(out, args...)
	return append(out, s.Args()...)
}
