package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func lifelogPage(titles []string, next string) string {
	var logs []map[string]interface{}
	for i, title := range titles {
		logs = append(logs, map[string]interface{}{
			"id":    fmt.Sprintf("ll-%d", i),
			"title": title,
		})
	}
	page := map[string]interface{}{
		"data": map[string]interface{}{"lifelogs": logs},
		"meta": map[string]interface{}{
			"lifelogs": map[string]interface{}{"nextCursor": next, "count": len(logs)},
		},
	}
	data, _ := json.Marshal(page)
	return string(data)
}

func chatPage(ids []string, next string) string {
	var chats []map[string]interface{}
	for _, id := range ids {
		chats = append(chats, map[string]interface{}{"id": id})
	}
	page := map[string]interface{}{
		"data": map[string]interface{}{"chats": chats},
		"meta": map[string]interface{}{
			"chats": map[string]interface{}{"nextCursor": next},
		},
	}
	data, _ := json.Marshal(page)
	return string(data)
}

func TestFetchLifelogsByDate(t *testing.T) {
	pages := map[string]string{
		"":    lifelogPage([]string{"Morning", "Noon"}, "cur2"),
		"cur2": lifelogPage([]string{"Evening"}, ""),
	}

	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("date") != "2025-03-01" || q.Get("direction") != "asc" || q.Get("limit") != "10" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("includeMarkdown") != "true" || q.Get("includeHeadings") != "true" {
			t.Errorf("missing include flags: %s", r.URL.RawQuery)
		}
		cursor := q.Get("cursor")
		requests = append(requests, cursor)
		_, _ = w.Write([]byte(pages[cursor]))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	logs, err := FetchLifelogsByDate(context.Background(), c, "2025-03-01", "UTC")
	if err != nil {
		t.Fatalf("FetchLifelogsByDate() error = %v", err)
	}

	if len(logs) != 3 {
		t.Fatalf("got %d lifelogs, want 3", len(logs))
	}
	if logs[0].Title != "Morning" || logs[2].Title != "Evening" {
		t.Errorf("lifelogs out of order: %+v", logs)
	}
	// pages must be requested strictly in cursor order
	if len(requests) != 2 || requests[0] != "" || requests[1] != "cur2" {
		t.Errorf("cursor sequence = %v, want [\"\" cur2]", requests)
	}
}

func TestFetchLifelogsByDateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(lifelogPage(nil, "")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	logs, err := FetchLifelogsByDate(context.Background(), c, "2025-03-01", "UTC")
	if err != nil {
		t.Fatalf("FetchLifelogsByDate() error = %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("got %d lifelogs, want 0", len(logs))
	}
}

func TestWalkChatsStopsAtCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// every page has more results
		cursor := r.URL.Query().Get("cursor")
		_, _ = w.Write([]byte(chatPage([]string{"a" + cursor, "b" + cursor}, "next"+cursor)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	var seen []string
	n, err := WalkChats(context.Background(), c, ChatWalkOptions{MaxChats: 5}, func(chat Chat) error {
		seen = append(seen, chat.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkChats() error = %v", err)
	}
	if n != 5 || len(seen) != 5 {
		t.Errorf("WalkChats() delivered %d (callback saw %d), want 5", n, len(seen))
	}
}

func TestWalkChatsStopsAtEmptyCursor(t *testing.T) {
	pages := map[string]string{
		"":     chatPage([]string{"c1", "c2"}, "cur2"),
		"cur2": chatPage([]string{"c3"}, ""),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("direction"); got != "desc" {
			t.Errorf("direction = %q, want desc", got)
		}
		_, _ = w.Write([]byte(pages[r.URL.Query().Get("cursor")]))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	n, err := WalkChats(context.Background(), c, ChatWalkOptions{MaxChats: 50}, func(chat Chat) error {
		return nil
	})
	if err != nil {
		t.Fatalf("WalkChats() error = %v", err)
	}
	if n != 3 {
		t.Errorf("WalkChats() = %d, want 3", n)
	}
}

func TestWalkChatsStopsOnEmptyPage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// no chats, yet a cursor pointing onward
		_, _ = w.Write([]byte(chatPage(nil, "more")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	n, err := WalkChats(context.Background(), c, ChatWalkOptions{MaxChats: 50}, func(Chat) error {
		return nil
	})
	if err != nil {
		t.Fatalf("WalkChats() error = %v", err)
	}
	if n != 0 {
		t.Errorf("WalkChats() = %d, want 0", n)
	}
	if calls != 1 {
		t.Errorf("requests = %d, want 1 (the walk must not chase cursors on empty pages)", calls)
	}
}

func TestWalkChatsClampsCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q, want 100", got)
		}
		_, _ = w.Write([]byte(chatPage(nil, "")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	// over the ceiling: page size must clamp to 100
	if _, err := WalkChats(context.Background(), c, ChatWalkOptions{MaxChats: 999}, func(Chat) error { return nil }); err != nil {
		t.Fatalf("WalkChats() error = %v", err)
	}
}

func TestWalkChatsFetchErrorAborts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(chatPage([]string{"c1"}, "cur2")))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	var seen int
	n, err := WalkChats(context.Background(), c, ChatWalkOptions{MaxChats: 50}, func(chat Chat) error {
		seen++
		return nil
	})
	if err == nil {
		t.Fatal("WalkChats() expected error")
	}
	// the first page's chat was already delivered
	if n != 1 || seen != 1 {
		t.Errorf("WalkChats() delivered %d (callback saw %d), want 1", n, seen)
	}
}

func TestFetchChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chats/abc-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"chat":{"id":"abc-123","summary":"Plan"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	chat, err := FetchChat(context.Background(), c, "abc-123", "UTC")
	if err != nil {
		t.Fatalf("FetchChat() error = %v", err)
	}
	if chat.ID != "abc-123" || chat.Summary != "Plan" {
		t.Errorf("FetchChat() = %+v", chat)
	}
}

func TestDeleteChat(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	if err := DeleteChat(context.Background(), c, "abc-123"); err != nil {
		t.Fatalf("DeleteChat() error = %v", err)
	}
	if method != http.MethodDelete || path != "/v1/chats/abc-123" {
		t.Errorf("request = %s %s, want DELETE /v1/chats/abc-123", method, path)
	}
}
