package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/doctranslate/internal/cli"
	"github.com/JonMunkholm/doctranslate/internal/core"
	_ "github.com/JonMunkholm/doctranslate/internal/core/kinds" // Register all document kinds
)

func main() {
	// A .env file fills in unset variables; the environment wins
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.CreateRootCommand(cli.NewFlags(), nil)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var userErr *core.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(userErr.Technical))
			fmt.Fprintln(os.Stderr, "Detail:", userErr.Technical)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
