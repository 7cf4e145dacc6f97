package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"council/council"
)

// ExportFormat selects the serialization used by Export.
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatYAML     ExportFormat = "yaml"
	FormatMarkdown ExportFormat = "md"
)

// ParseExportFormat accepts the format names the CLI exposes.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Export writes the session to w.
func Export(w io.Writer, s Session, format ExportFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, RenderTranscript(s))
		return err
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// RenderTranscript renders a session as a Markdown document with persona
// names and confidence scores.
func RenderTranscript(s Session) string {
	roster := s.Roster()
	tmpl := council.TemplateOrDefault(s.TemplateID)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "_%s · %s_\n\n", tmpl.Name, s.UpdatedAt().Format("Jan 2, 2006 3:04 PM"))

	for _, m := range s.Messages {
		if m.Role == council.RoleUser {
			b.WriteString("## User\n\n")
		} else {
			def := roster[m.Role]
			fmt.Fprintf(&b, "## %s (%s)\n\n", roster.DisplayName(m.Role), def.Title)
		}

		if m.IsThinking {
			b.WriteString("_thinking..._\n\n")
			continue
		}
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString("\n\n")
		if c, ok := m.Confidence(); ok && m.Role.IsAgent() {
			fmt.Fprintf(&b, "> Confidence: %d%%\n\n", c)
		}
	}

	if score, ok := s.Consensus(); ok {
		fmt.Fprintf(&b, "---\n\n**Council consensus:** %d%%\n", score)
	}
	return b.String()
}

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-", "\"", "-",
		"<", "-", ">", "-", "|", "-", " ", "-", "\n", "-", "\r", "-",
	)
	name = strings.Trim(replacer.Replace(name), "-.")

	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "session"
	}
	return name
}

// GenerateExportPath builds a default export path in the user's Downloads directory.
func GenerateExportPath(sessionTitle string, format ExportFormat) string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE") // Windows fallback
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("council-%s-%s.%s", SanitizeFilename(sessionTitle), timestamp, format)

	return filepath.Join(homeDir, "Downloads", filename)
}

// ExportToFile writes the session to path, creating parent directories.
func ExportToFile(s Session, path string, format ExportFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// 0600 - session exports contain conversation history
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	return Export(f, s, format)
}
