package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"limitless-sync/internal"
	"limitless-sync/internal/render"
)

// Chats syncs chat conversations into the chat folder, newest first,
// capped per invocation. Writes are idempotent: a chat whose rendered
// document matches the file already on disk is skipped.
type Chats struct {
	Client   *internal.Client
	Store    internal.Store
	Folder   string
	Layout   string // per-chat, daily, monthly
	MaxChats int
	Enabled  bool
	Timezone string
	Loc      *time.Location
	Notify   Notifier
}

// Result summarizes one chat sync run
type Result struct {
	Processed int
	Written   int
	Skipped   int
	Failed    int
}

// Run walks the chat pages and writes each chat as it arrives. A fetch
// failure aborts the walk; a render or write failure for a single chat is
// logged and skipped without aborting the rest.
func (s *Chats) Run(ctx context.Context) (Result, error) {
	var res Result
	if !s.Enabled {
		internal.LogDebug("Chat sync disabled, skipping")
		return res, nil
	}

	if err := s.Store.EnsureFolder(s.Folder); err != nil {
		return res, err
	}

	loc := s.Loc
	if loc == nil {
		loc = time.Local
	}

	opts := internal.ChatWalkOptions{
		Direction: "desc",
		MaxChats:  s.MaxChats,
		Timezone:  s.Timezone,
	}

	processed, err := internal.WalkChats(ctx, s.Client, opts, func(chat internal.Chat) error {
		if err := s.syncOne(&chat, loc, &res); err != nil {
			res.Failed++
			internal.LogWarn("%v", &internal.ProcessError{ChatID: chat.ID, Err: err})
		}
		return nil
	})
	res.Processed = processed
	if err != nil {
		return res, fmt.Errorf("failed to fetch chats: %w", err)
	}

	s.notify(fmt.Sprintf("Chat sync complete: %d processed, %d written, %d unchanged", res.Processed, res.Written, res.Skipped))
	return res, nil
}

func (s *Chats) syncOne(chat *internal.Chat, loc *time.Location, res *Result) error {
	path := render.ChatPath(chat, s.Folder, s.Layout, loc)
	text := render.Chat(chat, loc)

	existing, err := s.Store.Read(path)
	if err == nil && existing == text {
		res.Skipped++
		internal.LogDebug("Chat %s unchanged at %s", chat.ID, path)
		return nil
	}
	if err != nil && !errors.Is(err, internal.ErrNotExist) {
		return err
	}

	if err := s.Store.Write(path, text); err != nil {
		return err
	}
	res.Written++
	internal.LogDebug("Wrote chat %s to %s", chat.ID, path)
	return nil
}

func (s *Chats) notify(message string) {
	if s.Notify != nil {
		s.Notify(message)
	}
}
