package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antigravity/transitcore/internal/store/snapshot"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print entity counts for a snapshot file",
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := snapshot.Read(cfg.Snapshot.Path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	fmt.Printf("nodes:  %d\n", s.NodeCount())
	fmt.Printf("stops:  %d\n", s.StopCount())
	fmt.Printf("trips:  %d\n", s.TripCount())
	fmt.Printf("ways:   %d\n", len(s.Ways()))
	fmt.Printf("routes: %d\n", len(s.Routes()))
	return nil
}
