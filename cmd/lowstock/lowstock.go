// Package lowstock implements the command to print items predicted to run out soon.
package lowstock

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
)

// Command creates the lowstock command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lowstock",
		Short: "Show recurring items predicted to run out soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLowStock(settings)
		},
	}

	return cmd
}

func runLowStock(settings *conf.Settings) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	items, err := store.GetLowStockItems()
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No low stock warnings. All recurring items are well stocked.")
		return nil
	}

	now := time.Now()
	fmt.Printf("%d items need attention:\n\n", len(items))
	for i := range items {
		item := &items[i]
		daysUntil := int(item.NextPredictedPurchase.Sub(now).Hours() / 24)
		fmt.Printf("- %s\n", item.ProductName)
		fmt.Printf("  last purchased: %s\n", item.LastPurchase.Format("2006-01-02"))
		fmt.Printf("  predicted need: in %d days (every %.0f days)\n\n",
			daysUntil, item.AvgDaysBetweenPurchase)
	}

	return nil
}
