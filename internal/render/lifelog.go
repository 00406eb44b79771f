// Package render turns fetched records into the markdown documents that
// get written to the vault.
package render

import (
	"fmt"
	"strings"
	"time"

	"limitless-sync/internal"
)

const timestampFormat = "01/02/06 3:04 PM"

// Lifelog renders one lifelog into markdown. When the API supplied a
// pre-rendered document, double line-breaks are collapsed and the text is
// otherwise returned as-is; the node tree is only walked when no
// pre-rendered markdown exists.
func Lifelog(l *internal.Lifelog, loc *time.Location) string {
	if l.Markdown != "" {
		return strings.ReplaceAll(l.Markdown, "\n\n", "\n")
	}

	var blocks []string
	if l.Title != "" {
		blocks = append(blocks, "# "+l.Title)
	}

	section := ""
	inSection := false
	var sectionLines []string

	flush := func() {
		if !inSection {
			return
		}
		block := "## " + section
		if len(sectionLines) > 0 {
			block += "\n" + strings.Join(sectionLines, "\n")
		}
		blocks = append(blocks, block)
		section = ""
		inSection = false
		sectionLines = nil
	}

	for _, node := range l.Contents {
		switch node.Type {
		case internal.NodeHeading1:
			// the title is already emitted as the H1
		case internal.NodeHeading2:
			flush()
			section = node.Content
			inSection = true
		case internal.NodeBlockquote:
			line := blockquoteLine(&node, loc)
			if inSection {
				sectionLines = append(sectionLines, line)
			} else {
				blocks = append(blocks, line)
			}
		default:
			blocks = append(blocks, node.Content)
		}
	}
	flush()

	return strings.Join(blocks, "\n\n")
}

func blockquoteLine(node *internal.ContentNode, loc *time.Location) string {
	speaker := node.SpeakerName
	if speaker == "" {
		speaker = "Speaker"
	}
	if at, ok := node.StartAt(); ok {
		return fmt.Sprintf("- %s (%s): %s", speaker, at.In(loc).Format(timestampFormat), node.Content)
	}
	return fmt.Sprintf("- %s: %s", speaker, node.Content)
}

// LifelogDay joins the rendered documents of one calendar date into the
// daily file body, separated by blank lines.
func LifelogDay(lifelogs []internal.Lifelog, loc *time.Location) string {
	rendered := make([]string, 0, len(lifelogs))
	for i := range lifelogs {
		rendered = append(rendered, Lifelog(&lifelogs[i], loc))
	}
	return strings.Join(rendered, "\n\n")
}
