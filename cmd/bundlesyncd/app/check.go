package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/checker"
	"github.com/hubsync/bundlesync/internal/config"
	"github.com/hubsync/bundlesync/internal/sources"
	"github.com/hubsync/bundlesync/internal/state"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the configured hubs for bundle updates and exit",
	Long: `Check the configured hubs for bundle updates and exit.

The check always queries the hubs directly, ignoring any cached results a
running daemon may hold. Nothing is installed; use the daemon's auto-update
schedule or its status API to apply updates.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "Print results as JSON")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	logger := slog.Default()

	configPath := viper.GetString("config")
	if configPath == "" {
		return fmt.Errorf("a configuration file is required, pass --config")
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	stateDir, err := cfg.GetStateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(stateDir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	store, err := state.NewFileStore(stateDir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	inventory, err := bundle.NewInventory(stateDir)
	if err != nil {
		return fmt.Errorf("failed to open bundle inventory: %w", err)
	}

	srcCfgs := make([]sources.SourceConfig, 0, len(cfg.Hubs))
	for _, hub := range cfg.Hubs {
		srcCfgs = append(srcCfgs, hub.SourceConfig)
	}
	manager, err := sources.NewManager(srcCfgs, logger)
	if err != nil {
		return fmt.Errorf("failed to configure hub sources: %w", err)
	}

	chk := checker.New(manager, inventory, store, checker.WithLogger(logger))
	results, err := chk.CheckForUpdates(ctx, true)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("All bundles are up to date.")
		return nil
	}
	fmt.Printf("%d update(s) available:\n", len(results))
	for _, r := range results {
		auto := ""
		if r.AutoUpdateEnabled {
			auto = " (auto-update)"
		}
		fmt.Printf("  %s: %s -> %s%s\n", r.BundleID, r.CurrentVersion, r.LatestVersion, auto)
	}
	return nil
}
