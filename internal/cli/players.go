package cli

import (
	"fmt"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/processing"

	"github.com/spf13/cobra"
)

func newPlayersCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List the players you may filter by",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !rt.session.CanViewTransactions() {
				fmt.Fprintln(out, app.UnauthorizedMessage)
				return nil
			}

			directory := processing.NewPlayerDirectory(rt.ledger, rt.session)
			if err := directory.Load(cmd.Context()); err != nil {
				renderFailure(out, err)
				return err
			}
			renderPlayers(out, directory.Players())
			return nil
		},
	}
}
