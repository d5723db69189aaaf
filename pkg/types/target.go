package types

// Target is one (source, destination) pair of the installation target set.
// Source is relative to the checkout root; Destination is absolute.
type Target struct {
	Name        string
	Source      string
	Destination string
}

// Seed is a default file copied into place only when nothing exists there.
type Seed struct {
	Name        string
	Source      string
	Destination string
}

// Script is an auxiliary installer script run from inside the checkout.
type Script struct {
	Name    string
	Dir     string
	Command []string
}

// Decision is the user's answer to a destination that already exists
type Decision int

const (
	// DecisionBackup renames the existing destination before copying
	DecisionBackup Decision = iota
	// DecisionOverwrite deletes the existing destination before copying
	DecisionOverwrite
	// DecisionQuit stops the whole workflow
	DecisionQuit
)

// String returns the prompt key of the decision
func (d Decision) String() string {
	switch d {
	case DecisionBackup:
		return "b"
	case DecisionOverwrite:
		return "o"
	case DecisionQuit:
		return "q"
	default:
		return "unknown"
	}
}
