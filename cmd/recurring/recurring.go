// Package recurring implements commands to inspect and manage recurring items.
package recurring

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
)

// Command creates the recurring command with its subcommands
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Inspect and manage recurring items",
	}

	cmd.AddCommand(listCommand(settings))
	cmd.AddCommand(autoAddCommand(settings))

	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recurring items by purchase frequency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(settings, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum number of items to show")

	return cmd
}

func autoAddCommand(settings *conf.Settings) *cobra.Command {
	var quantity int
	var disable bool

	cmd := &cobra.Command{
		Use:   "autoadd [product name]",
		Short: "Mark a recurring item for automatic shopping list addition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutoAdd(settings, args[0], !disable, quantity)
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Preferred quantity when auto-adding")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable auto-add instead of enabling it")

	return cmd
}

func runList(settings *conf.Settings, limit int) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	items, err := store.GetRecurringItems(limit)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No recurring items found. Run 'pantry analyze' first.")
		return nil
	}

	for i := range items {
		item := &items[i]
		fmt.Printf("- %s\n", item.ProductName)
		fmt.Printf("  purchased: %d times, every %.0f days\n", item.PurchaseCount, item.AvgDaysBetweenPurchase)
		fmt.Printf("  last bought: %s\n", item.LastPurchase.Format("2006-01-02"))
		if item.AutoAddToList {
			fmt.Printf("  auto-add: %d stk\n", item.PreferredQuantity)
		}
		if item.IsLowStockWarning {
			fmt.Println("  low stock")
		}
		fmt.Println()
	}

	return nil
}

func runAutoAdd(settings *conf.Settings, name string, autoAdd bool, quantity int) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetRecurringAutoAdd(name, autoAdd, quantity); err != nil {
		return err
	}

	if autoAdd {
		fmt.Printf("%s will be auto-added to shopping lists (%d stk)\n", name, quantity)
	} else {
		fmt.Printf("%s will no longer be auto-added\n", name)
	}
	return nil
}
