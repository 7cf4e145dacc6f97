// Package council holds the static council configuration and the pure
// functions that turn it into prompts: roster resolution, prompt compilation,
// confidence parsing, quick-start seeding and consensus scoring.
package council

// AgentRole identifies the author of a message in a council transcript.
type AgentRole string

const (
	RoleUser     AgentRole = "user"
	RolePlanner  AgentRole = "planner"
	RoleExecutor AgentRole = "executor"
	RoleCritic   AgentRole = "critic"
	RoleManager  AgentRole = "manager"
)

// TurnOrder is the fixed order in which automated agents speak.
var TurnOrder = []AgentRole{RolePlanner, RoleExecutor, RoleCritic, RoleManager}

// IsAgent reports whether the role is one of the automated council members.
func (r AgentRole) IsAgent() bool {
	for _, role := range TurnOrder {
		if role == r {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known role.
func (r AgentRole) Valid() bool {
	return r == RoleUser || r.IsAgent()
}

func (r AgentRole) String() string {
	return string(r)
}
