package main

import (
	"github.com/spf13/cobra"

	"github.com/jd-116/izettle-go/izettle"
)

func newImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Upload product images",
	}

	createCmd := &cobra.Command{
		Use:   "create <url>",
		Short: "Upload an image from a URL the platform fetches itself",
		Args:  cobra.ExactArgs(1),
	}
	format := createCmd.Flags().String("format", "PNG", "image format (PNG or JPEG)")
	createCmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		response, err := client.CreateImage(&izettle.Image{
			ImageFormat: *format,
			ImageURL:    args[0],
		})
		if err != nil {
			return err
		}

		return printJSON(response)
	}
	cmd.AddCommand(createCmd)

	return cmd
}
