package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"limitless-sync/internal"
	syncer "limitless-sync/internal/sync"
)

var (
	lifelogsOnly bool
	chatsOnly    bool
	vaultDir     string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync lifelogs and chats into the vault",
	Long: `Fetch new lifelogs and chat conversations from the Limitless API and
write them as markdown files into the vault.

Lifelog sync resumes from the most recent date file already present; chat
sync pulls the newest conversations up to the configured cap and skips any
whose rendered content is unchanged. The two procedures run concurrently
and never touch the same files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("no API key configured (set LIMITLESS_API_KEY or api_key in the config file)")
		}
		if vaultDir != "" {
			cfg.VaultDir = vaultDir
		}

		client := internal.NewClient(cfg.BaseURL, cfg.APIKey)
		client.OnRateLimitWait(func(delay time.Duration) {
			internal.PrintWarning(fmt.Sprintf("Rate limited, waiting %s before retrying...", delay.Round(time.Second)))
		})

		store := internal.NewDirStore(cfg.VaultDir)
		loc := cfg.Location()

		history := openHistory(cfg)
		if history != nil {
			defer func() { _ = history.Close() }()
		}

		internal.PrintInfo("Starting Limitless sync...")

		ctx := context.Background()
		var wg sync.WaitGroup
		var lifelogErr, chatErr error
		var chatResult syncer.Result

		if !chatsOnly {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s := &syncer.Lifelogs{
					Client:    client,
					Store:     store,
					Folder:    cfg.Lifelogs.Folder,
					StartDate: cfg.Lifelogs.StartDate,
					Timezone:  cfg.Timezone,
					Loc:       loc,
					Notify:    internal.PrintSuccess,
				}
				started := time.Now()
				var written int
				written, lifelogErr = s.Run(ctx)
				recordRun(history, "lifelogs", started, written, lifelogErr)
			}()
		}

		if !lifelogsOnly {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s := &syncer.Chats{
					Client:   client,
					Store:    store,
					Folder:   cfg.Chats.Folder,
					Layout:   cfg.Chats.Layout,
					MaxChats: cfg.Chats.MaxPerSync,
					Enabled:  cfg.Chats.Enabled,
					Timezone: cfg.Timezone,
					Loc:      loc,
					Notify:   internal.PrintSuccess,
				}
				started := time.Now()
				chatResult, chatErr = s.Run(ctx)
				if cfg.Chats.Enabled {
					recordRun(history, "chats", started, chatResult.Processed, chatErr)
				}
			}()
		}

		wg.Wait()

		if lifelogErr != nil {
			internal.PrintError("Lifelog sync failed; see logs for details")
			return lifelogErr
		}
		if chatErr != nil {
			internal.PrintError("Chat sync failed; see logs for details")
			return chatErr
		}

		internal.PrintSuccess("Sync complete")
		return nil
	},
}

// openHistory opens the run-history database; failures degrade to a
// warning since history is purely observational.
func openHistory(cfg *internal.Config) *internal.History {
	path, err := cfg.HistoryPath()
	if err != nil {
		internal.LogWarn("Failed to resolve history path: %v", err)
		return nil
	}
	history, err := internal.OpenHistory(path)
	if err != nil {
		internal.LogWarn("Failed to open sync history: %v", err)
		return nil
	}
	return history
}

func recordRun(history *internal.History, kind string, started time.Time, processed int, runErr error) {
	if history == nil {
		return
	}
	run := &internal.SyncRun{
		Kind:       kind,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Processed:  processed,
		Status:     "ok",
	}
	if runErr != nil {
		run.Status = "error"
		run.Error = runErr.Error()
	}
	if err := history.Record(run); err != nil {
		internal.LogWarn("Failed to record sync run: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&lifelogsOnly, "lifelogs-only", false, "Sync lifelogs only")
	syncCmd.Flags().BoolVar(&chatsOnly, "chats-only", false, "Sync chats only")
	syncCmd.Flags().StringVar(&vaultDir, "vault", "", "Override the vault directory")
}
