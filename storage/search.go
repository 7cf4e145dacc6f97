package storage

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"council/council"
)

// FilterSessions fuzzy-matches query against session titles, best match
// first. An empty query returns sessions unchanged.
func FilterSessions(sessions []Session, query string) []Session {
	if strings.TrimSpace(query) == "" {
		return sessions
	}

	targets := make([]string, len(sessions))
	for i, s := range sessions {
		targets[i] = s.Title
	}

	matches := fuzzy.Find(query, targets)
	out := make([]Session, len(matches))
	for i, match := range matches {
		out[i] = sessions[match.Index]
	}
	return out
}

// MessageMatch is a search hit within a session.
type MessageMatch struct {
	MessageIndex int
	Role         council.AgentRole
	Preview      string
}

// SearchMessages finds committed messages containing query, case-insensitively.
func SearchMessages(messages []Message, query string) []MessageMatch {
	if query == "" {
		return []MessageMatch{}
	}

	queryLower := strings.ToLower(query)
	var matches []MessageMatch

	for i, msg := range messages {
		if msg.IsThinking {
			continue
		}
		if strings.Contains(strings.ToLower(msg.Content), queryLower) {
			matches = append(matches, MessageMatch{
				MessageIndex: i,
				Role:         msg.Role,
				Preview:      council.Truncate(strings.ReplaceAll(msg.Content, "\n", " "), 100),
			})
		}
	}

	return matches
}
