package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/morning-report/internal/records"
)

func (a *app) keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <userId>",
		Short: "Print the storage key of a user's playback position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), records.PositionKey(args[0]))
			return err
		},
	}
}

func (a *app) positionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Inspect or clear stored playback positions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <userId>",
			Short: "Print a user's stored playback position",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, done, err := a.repository(cmd.Context())
				if err != nil {
					return err
				}
				defer done()

				pos, err := repo.Position(cmd.Context(), args[0])
				if errors.Is(err, records.ErrNotFound) {
					return fmt.Errorf("no stored position for %s", records.PositionKey(args[0]))
				}
				if err != nil {
					return fmt.Errorf("read position: %w", err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pos)
			},
		},
		&cobra.Command{
			Use:   "delete <userId>",
			Short: "Forget a user's playback position",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, done, err := a.repository(cmd.Context())
				if err != nil {
					return err
				}
				defer done()

				if err := repo.DeletePosition(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete position: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "deleted", records.PositionKey(args[0]))
				return err
			},
		},
	)
	return cmd
}
