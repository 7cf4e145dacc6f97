package council

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRosterKeepsBaseIdentity(t *testing.T) {
	ids := []string{"general", "marketing", "product", "career", "does-not-exist", ""}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			roster := ResolveRoster(id)
			require.Len(t, roster, 4)

			for _, role := range TurnOrder {
				def, ok := roster[role]
				require.True(t, ok, "missing role %s", role)

				base, _ := BaseAgent(role)
				assert.Equal(t, base.ID, def.ID)
				assert.Equal(t, base.Color, def.Color)
				assert.Equal(t, base.Icon, def.Icon)
				assert.NotEmpty(t, def.Name)
				assert.NotEmpty(t, def.Title)
				assert.NotEmpty(t, def.Instruction)
			}
		})
	}
}

func TestResolveRosterOverlay(t *testing.T) {
	roster := ResolveRoster("marketing")

	planner := roster[RolePlanner]
	assert.Equal(t, "Head of Strategy", planner.Name)
	assert.Equal(t, "Campaign Architect", planner.Title)
	assert.True(t, strings.HasPrefix(planner.Instruction, "You are the Head of Strategy."))
	assert.Equal(t, "Breaks down the goal into executable steps.", planner.Description)
}

func TestResolveRosterUnknownFallsBackToGeneral(t *testing.T) {
	assert.Equal(t, ResolveRoster("general"), ResolveRoster("nope"))
	assert.Equal(t, "The Planner", ResolveRoster("nope")[RolePlanner].Name)
}

func TestResolveRosterIdempotent(t *testing.T) {
	a := ResolveRoster("product")
	b := ResolveRoster("product")
	assert.Equal(t, a, b)

	// mutating a returned roster must not leak into the next resolution
	a[RolePlanner] = AgentDefinition{Name: "mutated"}
	assert.Equal(t, "Product Manager", ResolveRoster("product")[RolePlanner].Name)
}

func TestTemplatesDefaultFirst(t *testing.T) {
	tmpls := Templates()
	require.Len(t, tmpls, 4)
	assert.Equal(t, DefaultTemplateID, tmpls[0].ID)
	assert.Empty(t, tmpls[0].Roles)
}

func TestCompilePrompt(t *testing.T) {
	roster := ResolveRoster("marketing")
	history := []Entry{
		{Role: RoleUser, Content: "Launch the new sneaker line"},
		{Role: RolePlanner, Content: "1. Pick channels\n2. Set KPIs"},
	}

	prompt := CompilePrompt(roster[RoleExecutor], history, roster)

	assert.Contains(t, prompt, "[User]: Launch the new sneaker line")
	assert.Contains(t, prompt, "[Head of Strategy]: 1. Pick channels\n2. Set KPIs")
	assert.Contains(t, prompt, "[User]: Launch the new sneaker line\n\n[Head of Strategy]:")
	assert.Contains(t, prompt, roster[RoleExecutor].Instruction)
	assert.Contains(t, prompt, "Name: Creative Lead")
	assert.Contains(t, prompt, "Role: Content Creator")
	assert.Contains(t, prompt, "[[CONFIDENCE: 85]]")
	assert.Contains(t, prompt, "valid Markdown")
}

func TestCompilePromptContainsAllHistory(t *testing.T) {
	roster := ResolveRoster("general")
	for _, role := range TurnOrder {
		history := []Entry{
			{Role: RoleUser, Content: "Build a plan"},
			{Role: RolePlanner, Content: "plan text"},
			{Role: RoleExecutor, Content: "draft text"},
			{Role: RoleCritic, Content: "critique text"},
		}
		prompt := CompilePrompt(roster[role], history, roster)
		for _, e := range history {
			assert.Contains(t, prompt, e.Content)
		}
		assert.Contains(t, prompt, roster[role].Instruction)
	}
}

func TestFormatTranscriptUnknownRoleUsesID(t *testing.T) {
	out := FormatTranscript([]Entry{{Role: "observer", Content: "hi"}}, ResolveRoster("general"))
	assert.Equal(t, "[observer]: hi", out)
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantScore int
	}{
		{"trailing marker", "Here is the plan.\n[[CONFIDENCE: 73]]", "Here is the plan.", 73},
		{"no space", "ok [[CONFIDENCE:90]]", "ok", 90},
		{"extra spaces", "ok\n\n[[CONFIDENCE:    5]]\n", "ok", 5},
		{"no marker", "  just text  ", "  just text  ", DefaultConfidence},
		{"out of range passes through", "x [[CONFIDENCE: 250]]", "x", 250},
		{"first marker only", "a [[CONFIDENCE: 10]] b [[CONFIDENCE: 20]]", "a  b [[CONFIDENCE: 20]]", 10},
		{"lowercase not matched", "x [[confidence: 10]]", "x [[confidence: 10]]", DefaultConfidence},
		{"empty", "", EmptyResponseText, 0},
		{"whitespace is kept", " \n\t", " \n\t", DefaultConfidence},
		{"overflow", "x [[CONFIDENCE: 99999999999999999999999]]", "x [[CONFIDENCE: 99999999999999999999999]]", DefaultConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, score := ParseResponse(tt.raw)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}

func TestParseResponseRoundTrip(t *testing.T) {
	text := "  ## Plan\n\n- step one\n- step two  "
	clean, score := ParseResponse(text + "\n" + FormatConfidenceMarker(73))
	assert.Equal(t, strings.TrimSpace(text), clean)
	assert.Equal(t, 73, score)

	clean, score = ParseResponse(text)
	assert.Equal(t, text, clean)
	assert.Equal(t, 80, score)
}

func TestFailedResponse(t *testing.T) {
	text, score := FailedResponse()
	assert.Equal(t, "[System Error] Could not generate a response.", text)
	assert.Zero(t, score)
}

func TestQuickStart(t *testing.T) {
	q := QuickStart{Industry: "Finance", Role: "Data Analyst", Goal: "Cut costs"}
	require.NoError(t, q.Validate())

	prompt := q.Prompt()
	assert.Equal(t, "**Context:** Industry: Finance, Role: Data Analyst.\n\n**Objective:** Cut costs", prompt)
	assert.Equal(t, "Cut costs", q.Title())

	long := QuickStart{Industry: "Tech", Role: "PM", Goal: "Ship the mobile app redesign before the holiday season"}
	assert.Equal(t, "Ship the mobile app redesign b...", long.Title())
}

func TestQuickStartValidate(t *testing.T) {
	assert.ErrorIs(t, QuickStart{Industry: " ", Role: "PM", Goal: "x"}.Validate(), ErrInvalidQuickStart)
	assert.ErrorIs(t, QuickStart{Industry: "Tech", Role: "", Goal: "x"}.Validate(), ErrInvalidQuickStart)
	assert.ErrorIs(t, QuickStart{Industry: "Tech", Role: "PM", Goal: "\n"}.Validate(), ErrInvalidQuickStart)
}

func TestPresets(t *testing.T) {
	assert.Len(t, Industries, 9)
	assert.Len(t, Roles, 8)
}

func TestConsensusScore(t *testing.T) {
	tests := []struct {
		name   string
		in     []int
		want   int
		wantOK bool
	}{
		{"none", nil, 0, false},
		{"all zero", []int{0, 0}, 0, false},
		{"single", []int{70}, 70, true},
		{"last three", []int{10, 80, 90, 70}, 80, true},
		{"zeros skipped", []int{60, 90, 0, 75, 0}, 75, true},
		{"rounds half up", []int{80, 81}, 81, true},
		{"rounds down", []int{80, 80, 81}, 80, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConsensusScore(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, ConsensusUnknown, LevelFor(0, false))
	assert.Equal(t, ConsensusStrong, LevelFor(76, true))
	assert.Equal(t, ConsensusModerate, LevelFor(75, true))
	assert.Equal(t, ConsensusModerate, LevelFor(51, true))
	assert.Equal(t, ConsensusWeak, LevelFor(50, true))
	assert.Equal(t, 100, ClampPercent(140))
	assert.Equal(t, 0, ClampPercent(-3))
}

func TestRoleHelpers(t *testing.T) {
	assert.False(t, RoleUser.IsAgent())
	assert.True(t, RoleCritic.IsAgent())
	assert.True(t, RoleUser.Valid())
	assert.False(t, AgentRole("boss").Valid())
	assert.Equal(t, "Final Synthesis", StageLabel(RoleManager))
}
