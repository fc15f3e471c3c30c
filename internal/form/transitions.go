package form

// validTransitions contains the permitted step transitions. Success is
// terminal: a visitor starts over with a new session, never by leaving it.
var validTransitions = map[Step][]Step{
	StepOneInput: {
		StepTwoInput,
	},
	StepTwoInput: {
		StepOneInput,
		StepSuccess,
	},
}

// IsTransitionAllowed reports whether moving from one step to another is valid.
func IsTransitionAllowed(from, to Step) bool {
	for _, step := range validTransitions[from] {
		if step == to {
			return true
		}
	}

	return false
}
