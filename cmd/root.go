package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vestboda/pantry-go/cmd/analyze"
	"github.com/vestboda/pantry-go/cmd/ingest"
	"github.com/vestboda/pantry-go/cmd/list"
	"github.com/vestboda/pantry-go/cmd/lowstock"
	"github.com/vestboda/pantry-go/cmd/recurring"
	"github.com/vestboda/pantry-go/cmd/serve"
	"github.com/vestboda/pantry-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pantry",
		Short: "Pantry-Go CLI",
		Long:  "Recurring grocery purchase prediction: ingest order history, analyze purchase cadence, flag low-stock items and feed the weekly shopping list.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Println("error setting up flags:", err)
	}

	subcommands := []*cobra.Command{
		ingest.Command(settings),
		analyze.Command(settings),
		recurring.Command(settings),
		lowstock.Command(settings),
		list.Command(settings),
		serve.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
