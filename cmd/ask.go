package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/DocPilot/internal/app"
	"github.com/Rorical/DocPilot/internal/config"
	"github.com/Rorical/DocPilot/internal/core"
	"github.com/Rorical/DocPilot/internal/logger"
	"github.com/Rorical/DocPilot/internal/models"
)

var askNoInput bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message without opening the chat screen",
	Long: `Send a single message to the agent and print its reply. If the agent asks
for confirmation you are prompted for an answer unless --no-input is set.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		if !cfg.IsValid() {
			log.Fatalf("Profile '%s' is not configured. Run: docpilot profile edit %s", cfg.ActiveProfile, cfg.ActiveProfile)
		}

		zl, err := logger.NewFileLogger(cfg.LogPath(), cfg.Debug)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer func() { _ = zl.Sync() }()

		controller, err := newOneShotController(cfg, zl)
		if err != nil {
			log.Fatalf("%v", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if err := controller.SubmitMessage(ctx, strings.Join(args, " ")); err != nil {
			log.Fatalf("Message not sent: %v", err)
		}
		printLastTurn(controller)

		for !askNoInput {
			p := controller.Pending()
			if p == nil {
				break
			}
			if err := answerPending(ctx, controller, p); err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					break
				}
				log.Fatalf("Answer not sent: %v", err)
			}
			printLastTurn(controller)
		}
	},
}

func newOneShotController(cfg *config.Config, zl logger.Logger) (*core.Controller, error) {
	client, guard, err := app.NewClient(cfg, zl, func() {
		fmt.Fprintln(os.Stderr, "Session rejected by the backend. Update the credential with: docpilot profile edit")
	})
	if err != nil {
		return nil, err
	}
	return core.NewController(core.ControllerOptions{
		Transport: client,
		Session:   guard,
		Logger:    zl,
	}), nil
}

// answerPending offers exactly the actions the pending confirmation allows.
func answerPending(ctx context.Context, c *core.Controller, p *models.Pending) error {
	const (
		approve    = "Approve"
		reject     = "Reject"
		regenerate = "Regenerate"
		skip       = "Skip preview"
	)
	items := []string{approve, reject}
	if p.AllowRegenerate {
		items = append(items, regenerate)
	}
	if p.AllowSkip {
		items = append(items, skip)
	}

	sel := promptui.Select{Label: p.Type.Label(), Items: items}
	_, choice, err := sel.Run()
	if err != nil {
		return err
	}

	switch choice {
	case approve:
		return c.SubmitConfirmation(ctx, true)
	case reject:
		return c.SubmitConfirmation(ctx, false)
	case regenerate:
		return c.SubmitRegenerate(ctx)
	default:
		return c.SubmitSkipPreview(ctx)
	}
}

func printLastTurn(c *core.Controller) {
	turns := c.Snapshot().Turns
	if len(turns) == 0 {
		return
	}
	turn := turns[len(turns)-1]
	fmt.Println(turn.Text)
	if turn.FileName != "" {
		fmt.Printf("File: %s\n", turn.FileName)
	}
	if turn.Preview != "" {
		fmt.Printf("\n%s\n", turn.Preview)
	}
}

func init() {
	askCmd.Flags().BoolVar(&askNoInput, "no-input", false, "print the reply and exit without answering confirmations")
}
