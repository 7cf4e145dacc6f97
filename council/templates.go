package council

// AgentOverride is the subset of an AgentDefinition a template may replace.
// Empty fields inherit the base value.
type AgentOverride struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Instruction string `json:"instruction,omitempty" yaml:"instruction,omitempty"`
}

// Template is a named set of persona overrides for the council.
type Template struct {
	ID          string                      `json:"id" yaml:"id"`
	Name        string                      `json:"name" yaml:"name"`
	Description string                      `json:"description" yaml:"description"`
	Icon        string                      `json:"icon" yaml:"icon"`
	Roles       map[AgentRole]AgentOverride `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// DefaultTemplateID is the template used when none, or an unknown one, is requested.
const DefaultTemplateID = "general"

var templates = []Template{
	{
		ID:          "general",
		Name:        "General Council",
		Description: "Standard strategic problem solving and execution.",
		Icon:        "sparkles",
	},
	{
		ID:          "marketing",
		Name:        "Marketing Launch",
		Description: "SEO, Content Strategy, and Market Analysis.",
		Icon:        "megaphone",
		Roles: map[AgentRole]AgentOverride{
			RolePlanner: {
				Name:        "Head of Strategy",
				Title:       "Campaign Architect",
				Instruction: "You are the Head of Strategy. Plan a comprehensive marketing campaign focusing on channels, KPIs, and target demographics.",
			},
			RoleExecutor: {
				Name:        "Creative Lead",
				Title:       "Content Creator",
				Instruction: "You are the Creative Lead. Draft the actual ad copy, social posts, and content outlines defined by the strategy.",
			},
			RoleCritic: {
				Name:        "Data Analyst",
				Title:       "ROI Optimizer",
				Instruction: "You are the Data Analyst. Critique the creative work based on SEO best practices, potential ROI, and market fit.",
			},
			RoleManager: {
				Name:        "CMO",
				Title:       "Marketing Director",
				Instruction: "You are the CMO. Package the campaign into a launch-ready executive summary.",
			},
		},
	},
	{
		ID:          "product",
		Name:        "Product Development",
		Description: "Feasibility, Tech Specs, and Go-to-Market.",
		Icon:        "box",
		Roles: map[AgentRole]AgentOverride{
			RolePlanner: {
				Name:        "Product Manager",
				Title:       "Product Visionary",
				Instruction: "You are the Product Manager. Define the user stories, requirements, and roadmap.",
			},
			RoleExecutor: {
				Name:        "Lead Engineer",
				Title:       "Technical Architect",
				Instruction: "You are the Lead Engineer. Write the technical specifications, pseudo-code, and architecture diagrams.",
			},
			RoleCritic: {
				Name:        "Security & QA",
				Title:       "Risk Assessor",
				Instruction: "You are Security & QA. Identify edge cases, security vulnerabilities, and scalability bottlenecks.",
			},
			RoleManager: {
				Name:        "VP of Product",
				Title:       "Launch Owner",
				Instruction: "You are the VP of Product. Summarize the product plan and technical approach for stakeholders.",
			},
		},
	},
	{
		ID:          "career",
		Name:        "Career Coach",
		Description: "Skills analysis, market trends, and negotiation.",
		Icon:        "briefcase",
		Roles: map[AgentRole]AgentOverride{
			RolePlanner: {
				Name:        "Career Strategist",
				Title:       "Pathfinder",
				Instruction: "You are a Career Strategist. Analyze the user's profile and goals to map out career advancement steps.",
			},
			RoleExecutor: {
				Name:        "Resume Specialist",
				Title:       "Personal Branding",
				Instruction: "You are a Resume Specialist. Draft resume bullets, cover letters, or LinkedIn bios based on the strategy.",
			},
			RoleCritic: {
				Name:        "Recruiter",
				Title:       "Market Reality Check",
				Instruction: "You are a Corporate Recruiter. Critique the materials for red flags, ATS optimization, and market realism.",
			},
			RoleManager: {
				Name:        "Talent Agent",
				Title:       "Negotiation Coach",
				Instruction: "You are a Talent Agent. Provide the final career action plan and salary negotiation scripts.",
			},
		},
	},
}

// Templates returns the built-in templates in display order. The first
// entry is the default.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate finds a template by id.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateOrDefault returns the template with the given id, or the first
// template when the id is unknown.
func TemplateOrDefault(id string) Template {
	if t, ok := LookupTemplate(id); ok {
		return t
	}
	return templates[0]
}

// ResolveRoster builds the four agent definitions for a template by
// overlaying its overrides on the base table. Unknown ids resolve to the
// default template. ID, Color, Icon and Description always come from the base.
func ResolveRoster(templateID string) Roster {
	tmpl := TemplateOrDefault(templateID)

	roster := make(Roster, len(TurnOrder))
	for _, role := range TurnOrder {
		def := baseAgents[role]
		if override, ok := tmpl.Roles[role]; ok {
			if override.Name != "" {
				def.Name = override.Name
			}
			if override.Title != "" {
				def.Title = override.Title
			}
			if override.Instruction != "" {
				def.Instruction = override.Instruction
			}
		}
		roster[role] = def
	}
	return roster
}
