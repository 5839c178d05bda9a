package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubsync/bundlesync/internal/config"
	"github.com/hubsync/bundlesync/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the sync history of a profile",
	Long: `Show the sync history of a profile, most recent first.

The history is served by a running daemon; start one with "bundlesyncd serve"
before querying.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("hub", "", "Hub identifier (required)")
	historyCmd.Flags().String("profile", "", "Profile identifier (required)")
	historyCmd.Flags().Int("limit", 0, "Maximum number of entries (0 for all)")
	historyCmd.Flags().String("address", "", "Daemon status API address (overrides config)")
	historyCmd.Flags().Bool("json", false, "Print entries as JSON")

	_ = historyCmd.MarkFlagRequired("hub")
	_ = historyCmd.MarkFlagRequired("profile")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	hub, err := cmd.Flags().GetString("hub")
	if err != nil {
		return err
	}
	profile, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("limit must be a non-negative integer")
	}

	address, err := cmd.Flags().GetString("address")
	if err != nil {
		return err
	}
	if address == "" {
		address = config.DefaultListenAddress
		if configPath := viper.GetString("config"); configPath != "" {
			cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			address = cfg.GetListenAddress()
		}
	}

	query := url.Values{}
	query.Set("hub", hub)
	query.Set("profile", profile)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("http://%s/v1/history?%s", address, query.Encode())

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("failed to reach the daemon at %s: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}

	var entries []*history.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode history: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		output, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(entries) == 0 {
		fmt.Printf("No sync history for profile %s on hub %s.\n", profile, hub)
		return nil
	}
	for _, e := range entries {
		printEntry(e)
	}
	return nil
}

func printEntry(e *history.Entry) {
	fmt.Printf("%s  %-8s  %s\n", e.Timestamp.Format(time.RFC3339), e.Status, e.ID)
	for _, a := range e.Changes.Added {
		fmt.Printf("    + %s %s\n", a.ID, a.Version)
	}
	for _, u := range e.Changes.Updated {
		fmt.Printf("    ~ %s %s -> %s\n", u.ID, u.OldVersion, u.NewVersion)
	}
	for _, r := range e.Changes.Removed {
		fmt.Printf("    - %s\n", r)
	}
	if e.Error != "" {
		fmt.Printf("    ! %s\n", e.Error)
	}
}
