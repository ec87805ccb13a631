package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/escrow-tf/steamtrade/api/econ"
	"github.com/escrow-tf/steamtrade/api/tradeoffer"
)

var offersCmd = &cobra.Command{
	Use:     "offers",
	Short:   "List sent and received trade offers",
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		sent, _ := cmd.Flags().GetBool("sent")
		received, _ := cmd.Flags().GetBool("received")
		activeOnly, _ := cmd.Flags().GetBool("active")
		historicalOnly, _ := cmd.Flags().GetBool("historical")
		descriptions, _ := cmd.Flags().GetBool("descriptions")
		cutoff, _ := cmd.Flags().GetUint32("cutoff")

		offers, err := trader.ListOffers(cmd.Context(), econ.ListOptions{
			GetSentOffers:        sent,
			GetReceivedOffers:    received,
			GetDescriptions:      descriptions,
			ActiveOnly:           activeOnly,
			HistoricalOnly:       historicalOnly,
			TimeHistoricalCutoff: cutoff,
		})
		if err != nil {
			return err
		}
		return printJSON(offers)
	},
}

var offerCmd = &cobra.Command{
	Use:     "offer <tradeofferid>",
	Short:   "Show a single trade offer",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		offer, err := trader.GetOffer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(offer)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a trade offer",
	Long: `Send a trade offer.

Items are given as appid:contextid:assetid[:amount], for example 440:2:1234567890.`,
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		partner, _ := cmd.Flags().GetString("partner")
		token, _ := cmd.Flags().GetString("token")
		message, _ := cmd.Flags().GetString("message")
		counter, _ := cmd.Flags().GetString("counter")
		give, _ := cmd.Flags().GetStringArray("give")
		receive, _ := cmd.Flags().GetStringArray("receive")
		confirm, _ := cmd.Flags().GetBool("confirm")

		itemsFromMe, err := parseAssets(give)
		if err != nil {
			return err
		}
		itemsFromThem, err := parseAssets(receive)
		if err != nil {
			return err
		}

		response, err := trader.SubmitOffer(cmd.Context(), tradeoffer.OfferRequest{
			ItemsFromMe:      itemsFromMe,
			ItemsFromThem:    itemsFromThem,
			PartnerId:        partner,
			AccessToken:      token,
			CounteredOfferId: counter,
			Message:          message,
		})
		if err != nil {
			return err
		}

		if confirm && response.NeedsMobileConfirmation {
			if err := trader.ConfirmOffer(cmd.Context(), response.TradeOfferId); err != nil {
				return err
			}
			response.NeedsMobileConfirmation = false
		}
		return printJSON(response)
	},
}

var acceptCmd = &cobra.Command{
	Use:     "accept <tradeofferid>",
	Short:   "Accept a received trade offer",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := trader.AcceptOffer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(response)
	},
}

var declineCmd = &cobra.Command{
	Use:     "decline <tradeofferid>",
	Short:   "Decline a received trade offer",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		return trader.DeclineOffer(cmd.Context(), args[0])
	},
}

var cancelCmd = &cobra.Command{
	Use:     "cancel <tradeofferid>",
	Short:   "Cancel a sent trade offer",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		return trader.CancelOffer(cmd.Context(), args[0])
	},
}

var confirmCmd = &cobra.Command{
	Use:     "confirm [tradeofferid]",
	Short:   "Confirm or cancel a sent trade offer, or list pending confirmations",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: preRunTraderE,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			confirmations, err := trader.ListConfirmations(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(confirmations)
		}
		if cancel, _ := cmd.Flags().GetBool("cancel"); cancel {
			return trader.DenyOffer(cmd.Context(), args[0])
		}
		return trader.ConfirmOffer(cmd.Context(), args[0])
	},
}

// parseAssets reads appid:contextid:assetid[:amount] item references.
func parseAssets(values []string) ([]tradeoffer.Asset, error) {
	assets := make([]tradeoffer.Asset, 0, len(values))
	for _, value := range values {
		parts := strings.Split(value, ":")
		if len(parts) != 3 && len(parts) != 4 {
			return nil, fmt.Errorf("item %q is not appid:contextid:assetid[:amount]", value)
		}

		appId, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("item %q has an invalid app id: %w", value, err)
		}

		amount := uint64(1)
		if len(parts) == 4 {
			amount, err = strconv.ParseUint(parts[3], 10, 64)
			if err != nil || amount == 0 {
				return nil, fmt.Errorf("item %q has an invalid amount", value)
			}
		}

		assets = append(assets, tradeoffer.Asset{
			AppId:     uint32(appId),
			ContextId: parts[1],
			AssetId:   parts[2],
			Amount:    amount,
		})
	}
	return assets, nil
}

func init() {
	offersCmd.Flags().Bool("sent", true, "Include sent offers")
	offersCmd.Flags().Bool("received", true, "Include received offers")
	offersCmd.Flags().Bool("active", true, "Only active offers")
	offersCmd.Flags().Bool("historical", false, "Only historical offers")
	offersCmd.Flags().Bool("descriptions", false, "Include item descriptions")
	offersCmd.Flags().Uint32("cutoff", 0, "Unix time before which historical offers are left out")

	sendCmd.Flags().String("partner", "", "Partner steam id")
	sendCmd.Flags().String("token", "", "Partner's trade offer access token")
	sendCmd.Flags().String("message", "", "Message shown with the offer")
	sendCmd.Flags().String("counter", "", "Trade offer id this offer counters")
	sendCmd.Flags().StringArray("give", nil, "Item to give, appid:contextid:assetid[:amount]")
	sendCmd.Flags().StringArray("receive", nil, "Item to receive, appid:contextid:assetid[:amount]")
	sendCmd.Flags().Bool("confirm", false, "Confirm the offer with the identity secret if it needs mobile confirmation")
	_ = sendCmd.MarkFlagRequired("partner")

	confirmCmd.Flags().Bool("cancel", false, "Cancel the confirmation instead of accepting it")

	rootCmd.AddCommand(offersCmd, offerCmd, sendCmd, acceptCmd, declineCmd, cancelCmd, confirmCmd)
}
