package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const lifelogPageSize = 10

// FetchLifelogsByDate fetches every lifelog for one calendar date
// (YYYY-MM-DD), walking the cursor until the service reports no more
// pages. Pages are requested strictly sequentially: the cursor for page
// N+1 only exists once page N has been received. The whole day is
// buffered and returned in ascending order.
func FetchLifelogsByDate(ctx context.Context, c *Client, date, timezone string) ([]Lifelog, error) {
	var all []Lifelog
	cursor := ""

	for {
		q := url.Values{}
		q.Set("date", date)
		q.Set("timezone", timezone)
		q.Set("includeMarkdown", "true")
		q.Set("includeHeadings", "true")
		q.Set("direction", "asc")
		q.Set("limit", strconv.Itoa(lifelogPageSize))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		body, err := c.Get(ctx, "/v1/lifelogs", q)
		if err != nil {
			return nil, err
		}

		var page LifelogsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &APIError{Kind: ErrInvalidResponse, Err: fmt.Errorf("lifelogs page: %w", err)}
		}

		all = append(all, page.Data.Lifelogs...)

		cursor = page.Meta.Lifelogs.NextCursor
		if cursor == "" {
			return all, nil
		}
	}
}

// ChatWalkOptions controls a paginated chat walk
type ChatWalkOptions struct {
	Direction string // default "desc" (newest first)
	MaxChats  int    // total item cap across all pages, clamped to [1, 200]
	Timezone  string
}

// WalkChats pages through chat conversations, handing each chat to fn as
// soon as its page arrives so the caller can write files incrementally.
// The walk stops when the next cursor is empty or the item cap is
// reached, whichever comes first. A page-fetch failure aborts the walk;
// chats already delivered to fn stand. An error from fn also aborts.
// Returns the number of chats delivered.
func WalkChats(ctx context.Context, c *Client, opts ChatWalkOptions, fn func(Chat) error) (int, error) {
	direction := opts.Direction
	if direction == "" {
		direction = "desc"
	}
	maxChats := opts.MaxChats
	if maxChats < 1 {
		maxChats = 1
	} else if maxChats > MaxChatsCeiling {
		maxChats = MaxChatsCeiling
	}
	pageSize := maxChats
	if pageSize > 100 {
		pageSize = 100
	}

	delivered := 0
	cursor := ""

	for {
		q := url.Values{}
		q.Set("direction", direction)
		q.Set("limit", strconv.Itoa(pageSize))
		if opts.Timezone != "" {
			q.Set("timezone", opts.Timezone)
		}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		body, err := c.Get(ctx, "/v1/chats", q)
		if err != nil {
			return delivered, err
		}

		var page ChatsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return delivered, &APIError{Kind: ErrInvalidResponse, Err: fmt.Errorf("chats page: %w", err)}
		}

		for _, chat := range page.Data.Chats {
			if delivered >= maxChats {
				return delivered, nil
			}
			if err := fn(chat); err != nil {
				return delivered, err
			}
			delivered++
		}

		// an empty page cannot make progress; stop even if the service
		// claims another cursor
		if len(page.Data.Chats) == 0 {
			return delivered, nil
		}

		cursor = page.Meta.Chats.NextCursor
		if cursor == "" || delivered >= maxChats {
			return delivered, nil
		}
	}
}

// FetchChat fetches a single chat by ID
func FetchChat(ctx context.Context, c *Client, id, timezone string) (*Chat, error) {
	q := url.Values{}
	if timezone != "" {
		q.Set("timezone", timezone)
	}

	body, err := c.Get(ctx, "/v1/chats/"+url.PathEscape(id), q)
	if err != nil {
		return nil, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Kind: ErrInvalidResponse, Err: fmt.Errorf("chat %s: %w", id, err)}
	}
	return &resp.Data.Chat, nil
}

// DeleteChat deletes a chat on the service
func DeleteChat(ctx context.Context, c *Client, id string) error {
	return c.Delete(ctx, "/v1/chats/"+url.PathEscape(id))
}
