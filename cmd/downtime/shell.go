package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/rpggio/downtime/internal/locale"
	"github.com/rpggio/downtime/internal/terminal"
	"github.com/spf13/cobra"
)

func shellCmd() *cobra.Command {
	var (
		userID string
		plain  bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Plan downtime interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			styles := terminal.DefaultStyles()
			if plain {
				styles = terminal.PlainStyles()
			}
			out := cmd.OutOrStdout()
			echo, err := terminal.NewChatEcho(out, styles, width)
			if err != nil {
				return err
			}

			svc, err := a.newServices(echo)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          terminal.Prompt,
				HistoryFile:     historyFile(),
				InterruptPrompt: "^C",
				EOFPrompt:       "quit",
			})
			if err != nil {
				return fmt.Errorf("start line editor: %w", err)
			}
			defer rl.Close()

			ctx := cmd.Context()
			session, err := svc.planner.Open(ctx, userID, terminal.NewHost(rl, out, styles))
			if err != nil {
				return err
			}
			a.logger.Debug("shell opened", "user_id", userID, "activities", len(session.Activities()))
			return terminal.NewShell(session, rl, out, echo, locale.Default(), styles).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "default", "user whose plan to open")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.Flags().IntVar(&width, "width", 80, "report wrap width")
	return cmd
}

// historyFile keeps shell history next to the user's cache, when there is one.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "downtime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
