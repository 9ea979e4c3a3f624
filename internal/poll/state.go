// Package poll implements the voting session workflow.
package poll

// State is a step of the session workflow.
type State int

const (
	// StateSelect lists constituencies and live totals.
	StateSelect State = iota
	// StateVerify asks the verification question.
	StateVerify
	// StateVote shows the constituency ballot.
	StateVote
	// StateResults shows tallies. It is terminal for the session.
	StateResults
	// StateBlocked is the entry state for a device that has already voted.
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StateSelect:
		return "select"
	case StateVerify:
		return "verify"
	case StateVote:
		return "vote"
	case StateResults:
		return "results"
	case StateBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Trigger is a user action that may move the session.
type Trigger int

// Triggers, one per Session method that can change state.
const (
	TriggerSelectConstituency Trigger = iota
	TriggerChooseAnswer
	TriggerSubmitAnswer
	TriggerCancel
	TriggerChooseCandidate
	TriggerSubmitVote
	TriggerBack
	TriggerViewResults
)

func (t Trigger) String() string {
	switch t {
	case TriggerSelectConstituency:
		return "select-constituency"
	case TriggerChooseAnswer:
		return "choose-answer"
	case TriggerSubmitAnswer:
		return "submit-answer"
	case TriggerCancel:
		return "cancel"
	case TriggerChooseCandidate:
		return "choose-candidate"
	case TriggerSubmitVote:
		return "submit-vote"
	case TriggerBack:
		return "back"
	case TriggerViewResults:
		return "view-results"
	default:
		return "unknown"
	}
}

// triggers lists the actions accepted in each state. Anything else is rejected.
var triggers = map[State][]Trigger{
	StateSelect:  {TriggerSelectConstituency},
	StateVerify:  {TriggerChooseAnswer, TriggerSubmitAnswer, TriggerCancel},
	StateVote:    {TriggerChooseCandidate, TriggerSubmitVote, TriggerBack},
	StateBlocked: {TriggerViewResults},
	StateResults: nil,
}

// Accepts reports whether trigger t is valid in state s.
func (s State) Accepts(t Trigger) bool {
	for _, allowed := range triggers[s] {
		if allowed == t {
			return true
		}
	}
	return false
}
