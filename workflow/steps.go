package workflow

import "council/council"

// Step is one automated turn in a council run.
type Step struct {
	Role council.AgentRole
}

// DefaultSteps is the fixed planner, executor, critic, manager pipeline.
func DefaultSteps() []Step {
	steps := make([]Step, len(council.TurnOrder))
	for i, role := range council.TurnOrder {
		steps[i] = Step{Role: role}
	}
	return steps
}
