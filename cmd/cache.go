package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inovacc/forkr/internal/config"
	"github.com/inovacc/forkr/internal/respcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the HTTP response cache",
	Long: `API responses are cached on disk and considered fresh for a day, so
repeated scans of the same repository cost almost no rate limit quota.
Clear the cache to force fresh data before the day is over.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached API responses",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache database path",
	Args:  cobra.NoArgs,
	RunE:  runCachePath,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
}

// cacheStorePath resolves the cache database location, honoring the
// config override.
func cacheStorePath() (string, error) {
	cfg, err := config.Load()
	if err == nil && cfg.Cache.Dir != "" {
		return respcache.PathIn(cfg.Cache.Dir), nil
	}

	return respcache.DefaultPath()
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	path, err := cacheStorePath()
	if err != nil {
		return fmt.Errorf("locate cache: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		printInfo("cache is empty")

		return nil
	}

	store, err := respcache.Open(path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	defer func() { _ = store.Close() }()

	count, err := store.Purge()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("cleared %d cached responses", count)
	printDetail("database: %s", store.Path())

	return nil
}

func runCachePath(_ *cobra.Command, _ []string) error {
	path, err := cacheStorePath()
	if err != nil {
		return fmt.Errorf("locate cache: %w", err)
	}

	fmt.Println(path)

	return nil
}
