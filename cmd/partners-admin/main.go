package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "partners-admin",
	Short: "Browser admin for the partner collection",
	Long: `partners-admin serves a searchable, paginated table of partner records
backed by a remote REST collection, with add, edit and delete.

Examples:
  PARTNERS_API_URL=https://api.example.com/v1/partners/ partners-admin serve
  partners-admin serve --with-mock --seed seeds/partners/dev.yaml
  partners-admin mock-store --listen :3002`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Flags for serve
var (
	serveListen   string
	serveWithMock bool
	serveSeed     string
)

// Flags for mock-store
var (
	mockListen   string
	mockBasePath string
	mockSeed     string
)

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Admin listen address (overrides HTTP_LISTEN_ADDR)")
	serveCmd.Flags().BoolVar(&serveWithMock, "with-mock", false, "Start an in-memory mock store and point the admin at it")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML seed file for the mock store (overrides SEED_FILE)")

	mockStoreCmd.Flags().StringVar(&mockListen, "listen", "", "Listen address (overrides MOCK_LISTEN_ADDR)")
	mockStoreCmd.Flags().StringVar(&mockBasePath, "base-path", "", "Collection path (overrides MOCK_BASE_PATH)")
	mockStoreCmd.Flags().StringVar(&mockSeed, "seed", "", "YAML seed file (overrides SEED_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mockStoreCmd)
}
