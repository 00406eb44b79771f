package internal

import (
	"encoding/json"
	"time"
)

// Content node types as returned by the API. Anything outside this set is
// rendered verbatim.
const (
	NodeHeading1   = "heading1"
	NodeHeading2   = "heading2"
	NodeBlockquote = "blockquote"
)

// ContentNode represents one structural unit of a lifelog transcript
type ContentNode struct {
	Type        string        `json:"type"`
	Content     string        `json:"content,omitempty"`
	StartTime   string        `json:"startTime,omitempty"`
	EndTime     string        `json:"endTime,omitempty"`
	SpeakerName string        `json:"speakerName,omitempty"`
	Children    []ContentNode `json:"children,omitempty"`
}

// StartAt parses the node's start timestamp. The second return value is
// false when the node carries no parseable timestamp.
func (n *ContentNode) StartAt() (time.Time, bool) {
	if n.StartTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, n.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Lifelog represents a single captured audio session
type Lifelog struct {
	ID        string        `json:"id"`
	Title     string        `json:"title,omitempty"`
	Markdown  string        `json:"markdown,omitempty"`
	StartTime string        `json:"startTime,omitempty"`
	EndTime   string        `json:"endTime,omitempty"`
	Contents  []ContentNode `json:"contents,omitempty"`
}

// ChatUser identifies the author of a chat message
type ChatUser struct {
	Role string `json:"role"` // user, assistant, system, tool
	Name string `json:"name,omitempty"`
}

// ToolCall represents a tool invocation inside a chat message
type ToolCall struct {
	ID       string          `json:"id"`
	ToolName string          `json:"toolName"`
	Args     json.RawMessage `json:"args,omitempty"`
}

// ToolReference is a cross-reference from a tool result to another entity
type ToolReference struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// ToolResult represents the outcome of a tool invocation
type ToolResult struct {
	Result     json.RawMessage `json:"result,omitempty"`
	IsError    bool            `json:"isError"`
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	References []ToolReference `json:"references,omitempty"`
}

// ChatMessage represents one turn of a chat conversation
type ChatMessage struct {
	ID          string       `json:"id"`
	Text        string       `json:"text,omitempty"`
	ToolCalls   []ToolCall   `json:"toolCalls,omitempty"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	User        ChatUser     `json:"user"`
}

// Chat represents a multi-turn conversation record
type Chat struct {
	ID         string        `json:"id"`
	Summary    string        `json:"summary,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	StartedAt  time.Time     `json:"startedAt,omitempty"`
	Visibility string        `json:"visibility,omitempty"` // private, public, internal
	Messages   []ChatMessage `json:"messages,omitempty"`
}

// PageMeta contains pagination metadata for one resource
type PageMeta struct {
	NextCursor string `json:"nextCursor,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// LifelogsResponse is the envelope of GET /v1/lifelogs
type LifelogsResponse struct {
	Data struct {
		Lifelogs []Lifelog `json:"lifelogs"`
	} `json:"data"`
	Meta struct {
		Lifelogs PageMeta `json:"lifelogs"`
	} `json:"meta"`
}

// ChatsResponse is the envelope of GET /v1/chats
type ChatsResponse struct {
	Data struct {
		Chats []Chat `json:"chats"`
	} `json:"data"`
	Meta struct {
		Chats PageMeta `json:"chats"`
	} `json:"meta"`
}

// ChatResponse is the envelope of GET /v1/chats/{id}
type ChatResponse struct {
	Data struct {
		Chat Chat `json:"chat"`
	} `json:"data"`
}
