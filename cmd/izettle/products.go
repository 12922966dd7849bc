package main

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/jd-116/izettle-go/izettle"
)

func newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product library",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())
	cmd.AddCommand(newProductsCreateCommand())
	cmd.AddCommand(newProductsDeleteCommand())
	cmd.AddCommand(newProductsSearchCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every product in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			products, err := client.GetAllProducts()
			if err != nil {
				return err
			}

			return printJSON(products)
		},
	}
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <uuid>",
		Short: "Get a single product by its UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			product, err := client.GetProduct(args[0])
			if err != nil {
				return err
			}

			return printJSON(product)
		},
	}
}

func newProductsCreateCommand() *cobra.Command {
	var description string
	var vatPercentage string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, logger, err := newClient()
			if err != nil {
				return err
			}

			product := izettle.Product{
				Name:          args[0],
				Description:   description,
				VatPercentage: vatPercentage,
			}
			if err := client.CreateProduct(&product); err != nil {
				return err
			}

			logger.Info().Str("uuid", product.UUID).Msg("created product")
			fmt.Println(product.UUID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "product description")
	cmd.Flags().StringVar(&vatPercentage, "vat", "", "VAT percentage (defaults to 0)")

	return cmd
}

func newProductsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uuid> [uuid...]",
		Short: "Delete one or more products by UUID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return client.DeleteProduct(args[0])
			}

			return client.DeleteProducts(args)
		},
	}
}

func newProductsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search products by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			products, err := client.GetAllProducts()
			if err != nil {
				return err
			}

			// Match client-side against the lowercased names
			search := strings.ToLower(args[0])
			matched := []izettle.Product{}
			for _, product := range products {
				if fuzzy.MatchNormalized(search, strings.ToLower(product.Name)) {
					matched = append(matched, product)
				}
			}

			return printJSON(matched)
		},
	}
}
