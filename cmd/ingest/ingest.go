// Package ingest implements the command to load a JSON order export into the database.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/ingest"
)

// Command creates the ingest command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [orders.json]",
		Short: "Ingest a JSON order export into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(settings, args[0])
		},
	}

	return cmd
}

func runIngest(settings *conf.Settings, path string) error {
	orders, err := ingest.ReadFile(path)
	if err != nil {
		return err
	}

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	saved, err := ingest.New(store).IngestOrders(orders)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d of %d orders from %s\n", saved, len(orders), path)
	return nil
}
