package kinds

// Kind is the built-in category of a class. Categories that the matcher
// dispatches on get their own kind; every user declared class is Class.
type Kind int

const (
	Class Kind = iota
	Any
	Function
	OptArg
)

func (k Kind) IsBuiltin() bool {
	return k != Class
}

func (k Kind) String() string {
	switch k {
	case Class:
		return "class"
	case Any:
		return "any"
	case Function:
		return "function"
	case OptArg:
		return "optarg"
	default:
		return "<unknown>"
	}
}
