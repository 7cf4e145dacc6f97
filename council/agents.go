package council

// AgentDefinition describes one council member. Color and Icon are
// presentation tags; front-ends map them to their own palette.
type AgentDefinition struct {
	ID          AgentRole `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Color       string    `json:"color" yaml:"color"`
	Icon        string    `json:"icon" yaml:"icon"`
	Instruction string    `json:"instruction" yaml:"instruction"`
}

// Roster maps each automated role to its resolved definition.
type Roster map[AgentRole]AgentDefinition

// Ordered returns the roster's definitions in turn order.
func (r Roster) Ordered() []AgentDefinition {
	out := make([]AgentDefinition, 0, len(TurnOrder))
	for _, role := range TurnOrder {
		if def, ok := r[role]; ok {
			out = append(out, def)
		}
	}
	return out
}

// DisplayName returns the label used for a role in transcripts.
func (r Roster) DisplayName(role AgentRole) string {
	if role == RoleUser {
		return "User"
	}
	if def, ok := r[role]; ok && def.Name != "" {
		return def.Name
	}
	return string(role)
}

var baseAgents = map[AgentRole]AgentDefinition{
	RolePlanner: {
		ID:          RolePlanner,
		Name:        "The Planner",
		Title:       "Strategic Architect",
		Description: "Breaks down the goal into executable steps.",
		Color:       "blue",
		Icon:        "compass",
		Instruction: "You are The Planner. Analyze the request and create a detailed plan. Focus on structure and strategy.",
	},
	RoleExecutor: {
		ID:          RoleExecutor,
		Name:        "The Executor",
		Title:       "Implementation Specialist",
		Description: "Performs the work based on the plan.",
		Color:       "emerald",
		Icon:        "zap",
		Instruction: "You are The Executor. Implement the solution based STRICTLY on the Planner's strategy.",
	},
	RoleCritic: {
		ID:          RoleCritic,
		Name:        "The Critic",
		Title:       "Quality Analyst",
		Description: "Reviews work for errors and flaws.",
		Color:       "amber",
		Icon:        "scan-eye",
		Instruction: "You are The Critic. Review the Executor's output for bugs, flaws, or missing requirements.",
	},
	RoleManager: {
		ID:          RoleManager,
		Name:        "The Manager",
		Title:       "Integration Director",
		Description: "Synthesizes the final response.",
		Color:       "purple",
		Icon:        "crown",
		Instruction: "You are The Manager. Synthesize a FINAL response incorporating all feedback.",
	},
}

// BaseAgent returns the template-independent definition for a role.
func BaseAgent(role AgentRole) (AgentDefinition, bool) {
	def, ok := baseAgents[role]
	return def, ok
}

// StageLabel is the workflow stage a role is responsible for.
func StageLabel(role AgentRole) string {
	switch role {
	case RolePlanner:
		return "Strategy & Planning"
	case RoleExecutor:
		return "Execution & Drafts"
	case RoleCritic:
		return "Critique & Risk Check"
	case RoleManager:
		return "Final Synthesis"
	default:
		return ""
	}
}
