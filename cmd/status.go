package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rorical/DocPilot/internal/app"
	"github.com/Rorical/DocPilot/internal/logger"
	"github.com/Rorical/DocPilot/internal/transport"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the session and the backend file cache",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		client, _, err := app.NewClient(cfg, logger.Nop(), nil)
		if err != nil {
			log.Fatalf("%v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		fmt.Printf("Profile: %s\n", cfg.ActiveProfile)
		fmt.Printf("Backend: %s\n", cfg.GetBackendURL())

		userID, err := client.CheckSession(ctx)
		switch {
		case err == nil:
			fmt.Printf("Session: valid (user %s)\n", userID)
		case transport.IsAuth(err):
			fmt.Println("Session: not signed in")
		default:
			fmt.Printf("Session: unknown (%v)\n", err)
		}

		status, err := client.CacheStatus(ctx)
		if err != nil {
			fmt.Printf("Cache: unavailable (%v)\n", err)
			return
		}
		fmt.Printf("Cache: %s\n", status)
	},
}
