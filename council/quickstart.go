package council

import (
	"errors"
	"fmt"
	"strings"
)

// Industries are the preset choices offered by the quick-start form.
var Industries = []string{
	"Technology",
	"Marketing",
	"Finance",
	"Healthcare",
	"E-commerce",
	"Education",
	"Media",
	"Manufacturing",
	"Real Estate",
}

// Roles are the preset job roles offered by the quick-start form.
var Roles = []string{
	"Executive (CEO/CTO)",
	"Product Manager",
	"Marketing Lead",
	"Software Engineer",
	"Content Creator",
	"Data Analyst",
	"HR Manager",
	"Sales Director",
}

// QuickStartTemplateID is the template every quick-start session uses.
const QuickStartTemplateID = DefaultTemplateID

const quickStartTitleLimit = 30

var ErrInvalidQuickStart = errors.New("industry, role and goal are required")

// QuickStart is a structured objective used to seed a new session.
type QuickStart struct {
	Industry string `json:"industry"`
	Role     string `json:"role"`
	Goal     string `json:"goal"`
}

// Validate requires all three fields to be non-blank.
func (q QuickStart) Validate() error {
	if strings.TrimSpace(q.Industry) == "" || strings.TrimSpace(q.Role) == "" || strings.TrimSpace(q.Goal) == "" {
		return ErrInvalidQuickStart
	}
	return nil
}

// Prompt renders the seeded user message.
func (q QuickStart) Prompt() string {
	return fmt.Sprintf("**Context:** Industry: %s, Role: %s.\n\n**Objective:** %s", q.Industry, q.Role, q.Goal)
}

// Title is the session title derived from the goal.
func (q QuickStart) Title() string {
	return Truncate(q.Goal, quickStartTitleLimit)
}

// Truncate shortens s to limit runes and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
