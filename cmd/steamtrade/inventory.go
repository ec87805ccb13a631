package main

import (
	"github.com/spf13/cobra"

	"github.com/escrow-tf/steamtrade/api/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Short:   "List the items in your inventory",
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		appId, _ := cmd.Flags().GetUint32("app")
		contextId, _ := cmd.Flags().GetString("context")
		tradable, _ := cmd.Flags().GetBool("tradable")

		items, err := trader.LoadOwnInventory(cmd.Context(), inventory.OwnInventoryOptions{
			AppId:        appId,
			ContextId:    contextId,
			Language:     cfg.Inventory.Language,
			TradableOnly: tradable,
		})
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var partnerInventoryCmd = &cobra.Command{
	Use:     "partner-inventory <steamid>",
	Short:   "List the items a trade partner can trade",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		appId, _ := cmd.Flags().GetUint32("app")
		contextId, _ := cmd.Flags().GetString("context")
		token, _ := cmd.Flags().GetString("token")
		offerId, _ := cmd.Flags().GetString("offer")

		items, err := trader.LoadPartnerInventory(cmd.Context(), inventory.PartnerInventoryOptions{
			PartnerSteamId: args[0],
			AppId:          appId,
			ContextId:      contextId,
			Language:       cfg.Inventory.Language,
			TradeOfferId:   offerId,
			AccessToken:    token,
		})
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

func addInventoryFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32("app", 440, "App id of the inventory")
	cmd.Flags().String("context", "2", "Context id of the inventory")
}

func init() {
	addInventoryFlags(inventoryCmd)
	inventoryCmd.Flags().Bool("tradable", false, "Only list tradable items")

	addInventoryFlags(partnerInventoryCmd)
	partnerInventoryCmd.Flags().String("token", "", "Partner's trade offer access token")
	partnerInventoryCmd.Flags().String("offer", "", "Existing trade offer the inventory is viewed from")

	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(partnerInventoryCmd)
}
