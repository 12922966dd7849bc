package main

import (
	"github.com/spf13/cobra"

	"github.com/jd-116/izettle-go/izettle"
)

func newPurchasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "Inspect recorded purchases",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded purchases",
	}
	limit := listCmd.Flags().Int("limit", 0, "maximum number of purchases to return (0 for no limit)")
	descending := listCmd.Flags().Bool("descending", false, "return the newest purchases first")
	lastHash := listCmd.Flags().String("last-hash", "", "resume a previous listing from its last purchase hash")
	listCmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		list, err := client.GetPurchases(&izettle.PurchaseFilter{
			Limit:            *limit,
			Descending:       *descending,
			LastPurchaseHash: *lastHash,
		})
		if err != nil {
			return err
		}

		return printJSON(list)
	}
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <uuid>",
		Short: "Get a single purchase by its UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			purchase, err := client.GetPurchase(args[0])
			if err != nil {
				return err
			}

			return printJSON(purchase)
		},
	})

	return cmd
}
