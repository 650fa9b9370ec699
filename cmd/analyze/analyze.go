// Package analyze implements the command to run the recurrence analysis.
package analyze

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/recurrence"
)

// Command creates the analyze command
func Command(settings *conf.Settings) *cobra.Command {
	var minPurchases int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze order history for recurring items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(settings, minPurchases)
		},
	}

	cmd.Flags().IntVarP(&minPurchases, "min-purchases", "m", settings.Recurrence.MinPurchases,
		"Minimum purchases before an item counts as recurring")

	return cmd
}

func runAnalyze(settings *conf.Settings, minPurchases int) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	analyzer := recurrence.New(store, settings)
	items, err := analyzer.Analyze(time.Now(), minPurchases)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No recurring items found.")
		return nil
	}

	fmt.Printf("Found %d recurring items:\n\n", len(items))
	for i := range items {
		item := &items[i]
		fmt.Printf("- %s\n", item.ProductName)
		fmt.Printf("  purchased %d times, every %.1f days, typically %d stk\n",
			item.PurchaseCount, item.AvgDaysBetweenPurchase, item.TypicalQuantity)
		fmt.Printf("  next predicted: %s", item.NextPredictedPurchase.Format("2006-01-02"))
		if item.IsLowStockWarning {
			fmt.Printf("  (low stock)")
		}
		fmt.Println()
	}

	return nil
}
