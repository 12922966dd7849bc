package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jd-116/izettle-go/izettle"
)

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage product categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every category",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			categories, err := client.GetAllCategories()
			if err != nil {
				return err
			}

			return printJSON(categories)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <uuid>",
		Short: "Get a single category by its UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			category, err := client.GetCategory(args[0])
			if err != nil {
				return err
			}

			return printJSON(category)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			category := izettle.Category{Name: args[0]}
			if err := client.CreateCategory(&category); err != nil {
				return err
			}

			fmt.Println(category.UUID)
			return nil
		},
	})

	return cmd
}
