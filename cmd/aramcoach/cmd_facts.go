package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aramcoach/internal/facts"
)

var factsFile string

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Manage the patch facts store",
}

var factsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a patch fixture into the facts store",
	Long: `Reads a YAML fixture of items, champions, runes, and guide snippets
and replaces that patch's rows in the facts database. Fixtures are
exported from static data dumps ahead of time; the coach itself never
fetches game data at answer time.`,
	RunE: runFactsLoad,
}

func init() {
	factsLoadCmd.Flags().StringVarP(&factsFile, "file", "f", "", "fixture file to load (required)")
	_ = factsLoadCmd.MarkFlagRequired("file")
	factsCmd.AddCommand(factsLoadCmd)
}

func runFactsLoad(cmd *cobra.Command, args []string) error {
	store, err := facts.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening facts store: %w", err)
	}
	defer store.Close()

	patch, err := store.SeedFile(factsFile)
	if err != nil {
		return fmt.Errorf("loading fixture: %w", err)
	}

	logger.Info("fixture loaded",
		zap.String("patch", patch),
		zap.String("file", factsFile),
		zap.String("db", store.Path()))
	fmt.Printf("loaded patch %s into %s\n", patch, store.Path())
	return nil
}
