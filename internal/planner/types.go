package planner

// Action describes the per-file processing decision.
type Action int

const (
	ActionEncode Action = iota
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionEncode:
		return "encode"
	case ActionSkip:
		return "skip"
	}
	return "unknown"
}

// Decision is the planner's verdict for one file.
type Decision struct {
	Action Action
	Codec  string // Source video codec the decision was based on.
	Reason string
}
