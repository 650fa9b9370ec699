// Package list implements commands for the weekly shopping list.
package list

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/shoppinglist"
)

// Command creates the list command with its subcommands
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the weekly shopping list",
	}

	cmd.AddCommand(showCommand(settings))
	cmd.AddCommand(addRecurringCommand(settings))
	cmd.AddCommand(clearCommand(settings))

	return cmd
}

func showCommand(settings *conf.Settings) *cobra.Command {
	var week, year int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the shopping list for a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(settings, week, year)
		},
	}

	nowYear, nowWeek := time.Now().ISOWeek()
	cmd.Flags().IntVar(&week, "week", nowWeek, "ISO week number")
	cmd.Flags().IntVar(&year, "year", nowYear, "Year")

	return cmd
}

func addRecurringCommand(settings *conf.Settings) *cobra.Command {
	var all bool
	var names []string

	cmd := &cobra.Command{
		Use:   "add-recurring",
		Short: "Add recurring items to this week's shopping list",
		Long:  "Adds low-stock recurring items by default. Use --names for specific items or --all for every auto-add flagged item.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddRecurring(settings, all, names)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Add all items flagged for auto-add instead of low-stock only")
	cmd.Flags().StringSliceVar(&names, "names", nil, "Add these specific recurring items")

	return cmd
}

func clearCommand(settings *conf.Settings) *cobra.Command {
	var week, year int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the shopping list for a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(settings, week, year)
		},
	}

	nowYear, nowWeek := time.Now().ISOWeek()
	cmd.Flags().IntVar(&week, "week", nowWeek, "ISO week number")
	cmd.Flags().IntVar(&year, "year", nowYear, "Year")

	return cmd
}

func runShow(settings *conf.Settings, week, year int) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	items, err := store.GetShoppingList(week, year)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Printf("Shopping list for week %d/%d is empty.\n", week, year)
		return nil
	}

	fmt.Printf("Shopping list for week %d/%d:\n\n", week, year)
	currentCategory := ""
	for i := range items {
		item := &items[i]
		if item.Category != currentCategory {
			currentCategory = item.Category
			fmt.Printf("%s:\n", currentCategory)
		}
		marker := " "
		if item.Purchased {
			marker = "x"
		}
		fmt.Printf("  [%s] %s (%s)\n", marker, item.Name, item.Quantity)
	}

	return nil
}

func runAddRecurring(settings *conf.Settings, all bool, names []string) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	writer := shoppinglist.New(store)
	added, err := writer.AddRecurring(time.Now(), shoppinglist.Selection{
		LowStockOnly: !all,
		ProductNames: names,
	})
	if err != nil {
		return err
	}

	if len(added) == 0 {
		fmt.Println("No items to add.")
		return nil
	}

	fmt.Printf("Added %d recurring items to the shopping list:\n", len(added))
	for i := range added {
		fmt.Printf("  - %s (%s)\n", added[i].Name, added[i].Quantity)
	}
	return nil
}

func runClear(settings *conf.Settings, week, year int) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearShoppingList(week, year); err != nil {
		return err
	}

	fmt.Printf("Cleared shopping list for week %d/%d.\n", week, year)
	return nil
}
