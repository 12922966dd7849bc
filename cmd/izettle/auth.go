package main

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
)

func newAuthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Verify credentials by authenticating a session",
		Long:  `Authenticates a session with the configured credentials and prints how long it remains valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}

			validUntil := client.SessionValidUntil()
			remaining := durafmt.Parse(time.Until(validUntil)).LimitFirstN(2).String()
			fmt.Printf("Session authenticated; valid until %s (%s from now)\n",
				validUntil.Format(time.RFC3339), remaining)

			return nil
		},
	}
}
