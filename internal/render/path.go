package render

import (
	"fmt"
	"strings"
	"time"

	"limitless-sync/internal"
)

const maxFilenameLen = 100

var filenameReplacer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", "\"", "_",
	"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
)

// ChatPath resolves the vault-relative file path for a chat under the
// given layout. The mapping is stable: the same chat and layout always
// produce the same path, which is what makes re-fetching idempotent.
// Daily and monthly layouts share one file between every chat of the
// period; each chat is still written independently, so the last one
// processed determines the file's content.
func ChatPath(c *internal.Chat, folder, layout string, loc *time.Location) string {
	switch layout {
	case internal.LayoutDaily:
		date := c.CreatedAt.In(loc).Format("2006-01-02")
		return fmt.Sprintf("%s/%s-Chats.md", folder, date)
	case internal.LayoutMonthly:
		month := c.CreatedAt.In(loc).Format("2006-01")
		return fmt.Sprintf("%s/%s-Chats.md", folder, month)
	default:
		name := c.Summary
		if name == "" {
			name = "Chat " + c.ID
		}
		return fmt.Sprintf("%s/%s - %s.md", folder, SanitizeFilename(name), shortID(c.ID))
	}
}

// SanitizeFilename replaces characters that are invalid in filenames and
// truncates the result to 100 characters.
func SanitizeFilename(name string) string {
	name = filenameReplacer.Replace(name)
	// truncate on runes so a multi-byte summary is never cut mid-character
	if runes := []rune(name); len(runes) > maxFilenameLen {
		name = string(runes[:maxFilenameLen])
	}
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
