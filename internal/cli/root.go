// Package cli holds the hensctl commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

// StoreOpener connects the document store for one command run.
type StoreOpener func(ctx context.Context) (ports.Stores, func() error, error)

func NewRootCmd(open StoreOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hensctl",
		Short:         "Paris tours site maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		MigrateCmd(),
		AdminCmd(open),
	)
	return rootCmd
}
