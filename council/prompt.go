package council

import (
	"fmt"
	"strings"
)

// Entry is one transcript line handed to the prompt compiler.
type Entry struct {
	Role    AgentRole
	Content string
}

// FormatTranscript renders history as "[Name]: content" blocks separated by
// blank lines. Names are resolved through the roster so later agents see
// persona names rather than role ids.
func FormatTranscript(history []Entry, roster Roster) string {
	lines := make([]string, 0, len(history))
	for _, e := range history {
		lines = append(lines, fmt.Sprintf("[%s]: %s", roster.DisplayName(e.Role), e.Content))
	}
	return strings.Join(lines, "\n\n")
}

// CompilePrompt renders the single prompt sent to the model for one agent turn.
func CompilePrompt(agent AgentDefinition, history []Entry, roster Roster) string {
	var b strings.Builder

	b.WriteString("You are participating in a continuous council meeting.\n\n")

	b.WriteString("Your Identity:\n")
	fmt.Fprintf(&b, "Name: %s\n", agent.Name)
	fmt.Fprintf(&b, "Role: %s\n\n", agent.Title)

	b.WriteString("SYSTEM INSTRUCTIONS:\n")
	b.WriteString(agent.Instruction)
	b.WriteString("\n\n")

	b.WriteString("CRITICAL OUTPUT FORMAT:\n")
	b.WriteString("1. Provide your response in valid Markdown.\n")
	b.WriteString("2. At the very end of your response, on a new line, you MUST include a confidence score (0-100) ")
	b.WriteString("regarding your recommendation or the project's success probability, in this format:\n\n")
	b.WriteString(FormatConfidenceMarker(85))
	b.WriteString("\n\n")

	b.WriteString("Meeting Transcript:\n---\n")
	b.WriteString(FormatTranscript(history, roster))
	b.WriteString("\n---\n\n")

	b.WriteString("Based on the transcript above, provide your specific contribution. Stay strictly within your persona.\n")

	return b.String()
}
