package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"limitless-sync/internal"
)

// Chat renders one chat conversation into markdown. Lines are joined with
// single line breaks; each message ends with a horizontal rule.
func Chat(c *internal.Chat, loc *time.Location) string {
	var lines []string

	title := c.Summary
	if title == "" {
		title = "Chat Conversation"
	}
	lines = append(lines, "# "+title, "")

	lines = append(lines, fmt.Sprintf("**ID:** %s", c.ID))
	if !c.CreatedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("**Created:** %s", c.CreatedAt.In(loc).Format(timestampFormat)))
	}
	if !c.StartedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("**Started:** %s", c.StartedAt.In(loc).Format(timestampFormat)))
	}
	if c.Visibility != "" {
		lines = append(lines, fmt.Sprintf("**Visibility:** %s", c.Visibility))
	}
	lines = append(lines, "")

	for i := range c.Messages {
		lines = append(lines, messageLines(&c.Messages[i], loc)...)
	}

	return strings.Join(lines, "\n")
}

func messageLines(m *internal.ChatMessage, loc *time.Location) []string {
	heading := "### " + capitalize(m.User.Role)
	if m.User.Name != "" {
		heading += " - " + m.User.Name
	}

	lines := []string{heading}
	if !m.CreatedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("*%s*", m.CreatedAt.In(loc).Format(timestampFormat)))
	}
	lines = append(lines, "")

	if m.Text != "" {
		lines = append(lines, m.Text, "")
	}

	if len(m.ToolCalls) > 0 {
		lines = append(lines, "**Tool Calls:**")
		for _, call := range m.ToolCalls {
			lines = append(lines, fmt.Sprintf("- %s: %s", call.ToolName, compactJSON(call.Args)))
		}
		lines = append(lines, "")
	}

	if len(m.ToolResults) > 0 {
		lines = append(lines, "**Tool Results:**")
		for _, result := range m.ToolResults {
			outcome := "Success"
			if result.IsError {
				outcome = "Error"
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", result.ToolName, outcome))
			for _, ref := range result.References {
				lines = append(lines, fmt.Sprintf("  - [[%s]] (%s)", ref.Title, ref.ID))
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, "---", "")
	return lines
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
