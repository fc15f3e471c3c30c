package form

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     Step
		to       Step
		expected bool
	}{
		{name: "step one to step two", from: StepOneInput, to: StepTwoInput, expected: true},
		{name: "step two back to step one", from: StepTwoInput, to: StepOneInput, expected: true},
		{name: "step two to success", from: StepTwoInput, to: StepSuccess, expected: true},
		{name: "step one straight to success invalid", from: StepOneInput, to: StepSuccess, expected: false},
		{name: "success is terminal", from: StepSuccess, to: StepOneInput, expected: false},
		{name: "success cannot resubmit", from: StepSuccess, to: StepTwoInput, expected: false},
		{name: "step one to itself invalid", from: StepOneInput, to: StepOneInput, expected: false},
		{name: "unknown step", from: Step("unknown"), to: StepTwoInput, expected: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
