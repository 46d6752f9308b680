package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "github.com/blockboard/blockboard/pkg/errors"
	"github.com/blockboard/blockboard/pkg/session"
)

// boardsCommand creates the boards management command.
func (c *CLI) boardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List and delete saved boards",
	}

	cmd.AddCommand(c.boardsListCommand())
	cmd.AddCommand(c.boardsDeleteCommand())
	cmd.AddCommand(c.boardsPathCommand())

	return cmd
}

// boardsListCommand creates the "boards list" subcommand.
func (c *CLI) boardsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			return listBoards(cmd.OutOrStdout(), store)
		},
	}
}

// listBoards writes one summary line per saved board.
func listBoards(w io.Writer, store *session.FileStore) error {
	names, err := store.List()
	if err != nil {
		return fmt.Errorf("list boards: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "No saved boards")
		return nil
	}

	for _, name := range names {
		doc, err := store.Load(name)
		if err != nil {
			fmt.Fprintf(w, "%s  (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%-24s %d blocks\n", name, len(doc.Blocks))
	}
	return nil
}

// boardsDeleteCommand creates the "boards delete" subcommand.
func (c *CLI) boardsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board>",
		Short: "Delete a saved board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			if err := apperrors.ValidateBoardName(args[0]); err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("delete board %q: %w", args[0], err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// boardsPathCommand creates the "boards path" subcommand.
func (c *CLI) boardsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the boards directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			return nil
		},
	}
}
