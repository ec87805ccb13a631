package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/escrow-tf/steamtrade/steamid"
)

var tokenCmd = &cobra.Command{
	Use:     "token",
	Short:   "Print your trade offer access token",
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := trader.GetOfferAccessToken(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var receiptCmd = &cobra.Command{
	Use:     "receipt <tradeid>",
	Short:   "List the items received in a completed trade",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := trader.GetReceiptItems(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <id>",
	Short: "Convert between account ids, steam ids and STEAM_X:Y:Z ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(map[string]string{
			"account_id": steamid.ToAccountId(args[0]),
			"steam_id":   steamid.ToSteamId(args[0]),
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Print the steam id and account id of the configured session",
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		steamID, err := trader.SteamId()
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"steam_id":   steamID.String(),
			"account_id": steamID.AccountId(),
		})
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd, receiptCmd, convertCmd, whoamiCmd)
}
