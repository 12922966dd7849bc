package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jd-116/izettle-go/izettle"
)

func newDiscountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discounts",
		Short: "Manage discounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every discount",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			discounts, err := client.GetAllDiscounts()
			if err != nil {
				return err
			}

			return printJSON(discounts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <uuid>",
		Short: "Get a single discount by its UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			discount, err := client.GetDiscount(args[0])
			if err != nil {
				return err
			}

			return printJSON(discount)
		},
	})

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new percentage discount",
		Args:  cobra.ExactArgs(1),
	}
	percentage := createCmd.Flags().String("percentage", "0", "discount percentage")
	createCmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		discount := izettle.Discount{
			Name:       args[0],
			Percentage: *percentage,
		}
		if err := client.CreateDiscount(&discount); err != nil {
			return err
		}

		fmt.Println(discount.UUID)
		return nil
	}
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a discount by its UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			return client.DeleteDiscount(args[0])
		},
	})

	return cmd
}
