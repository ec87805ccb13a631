package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/escrow-tf/steamtrade"
	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/config"
)

var (
	cfg        *config.Config
	trader     *steamtrade.TradeClient
	closeCache func() error
)

var rootCmd = &cobra.Command{
	Use:   "steamtrade",
	Short: "Manage Steam inventories and trade offers",
	Long: `Manage Steam inventories and trade offers from an existing web session.

If no config file is specified, steamtrade looks for steamtrade.yaml in the following locations:
  - ./steamtrade.yaml
  - ./config/steamtrade.yaml
  - ~/.config/steamtrade/steamtrade.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (optional)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// preRunTraderE loads the configuration and sets up a TradeClient for commands that talk to Steam.
func preRunTraderE(cmd *cobra.Command, _ []string) error {
	if err := preRunConfigE(cmd, nil); err != nil {
		return err
	}

	options, err := cfg.TradeClientOptions()
	if err != nil {
		return fmt.Errorf("failed to configure trade client: %w", err)
	}

	credentials, err := cfg.Credentials()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	transportOptions, closer, err := cfg.TransportOptions()
	if err != nil {
		return fmt.Errorf("failed to open response cache: %w", err)
	}
	closeCache = closer

	trader = steamtrade.NewTradeClient(api.NewTransport(transportOptions), options...)
	if err := trader.Setup(credentials); err != nil {
		return fmt.Errorf("failed to set up session: %w", err)
	}
	return nil
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return nil
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func main() {
	err := rootCmd.Execute()

	if closeCache != nil {
		if closeErr := closeCache(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to close response cache")
		}
	}

	if err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
