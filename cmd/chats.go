package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"limitless-sync/internal"
	"limitless-sync/internal/render"
)

// chatsCmd groups chat operations that talk to the API directly
var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Inspect or delete individual chats on the service",
}

var chatsShowCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Fetch one chat and print it as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := chatClient()
		if err != nil {
			return err
		}

		chat, err := internal.FetchChat(context.Background(), client, args[0], cfg.Timezone)
		if err != nil {
			return fmt.Errorf("failed to fetch chat %s: %w", args[0], err)
		}

		fmt.Println(render.Chat(chat, cfg.Location()))
		return nil
	},
}

var chatsDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat on the service",
	Long: `Delete a chat conversation on the Limitless service. Files already
synced into the vault are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := chatClient()
		if err != nil {
			return err
		}

		if err := internal.DeleteChat(context.Background(), client, args[0]); err != nil {
			return fmt.Errorf("failed to delete chat %s: %w", args[0], err)
		}

		internal.PrintSuccess(fmt.Sprintf("Deleted chat %s", args[0]))
		return nil
	},
}

func chatClient() (*internal.Config, *internal.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("no API key configured (set LIMITLESS_API_KEY or api_key in the config file)")
	}
	return cfg, internal.NewClient(cfg.BaseURL, cfg.APIKey), nil
}

func init() {
	rootCmd.AddCommand(chatsCmd)
	chatsCmd.AddCommand(chatsShowCmd)
	chatsCmd.AddCommand(chatsDeleteCmd)
}
