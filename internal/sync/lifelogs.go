// Package sync contains the two orchestrators that drive an incremental,
// resumable sync of lifelogs and chats into the local vault.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"limitless-sync/internal"
	"limitless-sync/internal/render"
)

// Notifier receives user-visible progress messages. Nil disables notices.
type Notifier func(message string)

// Lifelogs syncs one markdown file per calendar date into the lifelog
// folder. Resumption is derived from the files already present: the walk
// starts the day after the most recent YYYY-MM-DD.md in the folder.
type Lifelogs struct {
	Client    *internal.Client
	Store     internal.Store
	Folder    string
	StartDate string // fallback when the folder holds no synced dates
	Timezone  string
	Loc       *time.Location
	Notify    Notifier
}

// Run walks every pending date in ascending order and returns the number
// of dates for which a file was written. The first fetch or write error
// aborts the remaining dates; files already written stay on disk and the
// next run resumes after them.
func (s *Lifelogs) Run(ctx context.Context) (int, error) {
	loc := s.Loc
	if loc == nil {
		loc = time.Local
	}

	if err := s.Store.EnsureFolder(s.Folder); err != nil {
		return 0, err
	}

	start, err := s.startDate(loc)
	if err != nil {
		return 0, err
	}
	end := truncateToDay(time.Now().In(loc))

	written := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		day := date.Format("2006-01-02")

		lifelogs, err := internal.FetchLifelogsByDate(ctx, s.Client, day, s.Timezone)
		if err != nil {
			return written, fmt.Errorf("failed to fetch lifelogs for %s: %w", day, err)
		}
		if len(lifelogs) == 0 {
			internal.LogDebug("No lifelogs for %s", day)
			continue
		}

		body := render.LifelogDay(lifelogs, loc)
		path := fmt.Sprintf("%s/%s.md", s.Folder, day)
		if err := s.Store.Write(path, body); err != nil {
			return written, err
		}
		written++

		s.notify(fmt.Sprintf("Synced %d lifelog(s) for %s", len(lifelogs), day))
	}

	return written, nil
}

// startDate resumes strictly after the last materialized date, falling
// back to the configured default when the folder is empty.
func (s *Lifelogs) startDate(loc *time.Location) (time.Time, error) {
	last, found, err := internal.LastSyncedDate(s.Store, s.Folder, loc)
	if err != nil {
		return time.Time{}, err
	}
	if found {
		return last.AddDate(0, 0, 1), nil
	}

	start, err := time.ParseInLocation("2006-01-02", s.StartDate, loc)
	if err != nil {
		return time.Time{}, errors.New("invalid default start date: " + s.StartDate)
	}
	return start, nil
}

func (s *Lifelogs) notify(message string) {
	if s.Notify != nil {
		s.Notify(message)
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
