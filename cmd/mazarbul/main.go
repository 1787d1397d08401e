package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0zzmandias/Mazarbul-sub000/internal/config"
	"github.com/0zzmandias/Mazarbul-sub000/internal/services"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

const toolVersion = "1.0.0"

var (
	configFile string
	debug      bool
	searchLang string
	searchMax  int
)

var rootCmd = &cobra.Command{
	Use:     "mazarbul",
	Version: toolVersion,
	Short:   "A cross-source media metadata reconciliation engine.",
	Long: fmt.Sprintf(`Mazarbul (v%s)

Resolves films, games, books and albums into canonical catalogue records by
reconciling facts across public metadata sources. It allows you to:
- Resolve a single identifier into a full record.
- Resolve a batch file of identifiers concurrently.
- Search the knowledge graph for candidate entities.

Album identifiers accept release-group:, mbid: and artist-album: schemes.`, toolVersion),
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [kind] [identifier]",
	Short: "Resolve one identifier into a canonical record.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, container := initConfigAndServices()
		kind := shared.MediaKind(strings.ToLower(args[0]))

		shared.ColorInfo.Printf("🔎 Resolving %s %s\n", kind, args[1])
		record, err := container.ResolveService.ResolveOne(context.Background(), kind, args[1])
		if err != nil {
			shared.ColorError.Printf("❌ Failed to resolve: %v\n", err)
			os.Exit(1)
		}

		printRecord(record)
		container.WarningCollector.PrintSummary()
		shared.ColorSuccess.Printf("✅ Resolved as %s\n", record.ID)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Resolve a file of identifiers, one \"kind identifier\" pair per line.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, container := initConfigAndServices()

		items, err := readBatchFile(args[0])
		if err != nil {
			shared.ColorError.Printf("❌ Failed to read batch file: %v\n", err)
			os.Exit(1)
		}
		if len(items) == 0 {
			shared.ColorWarning.Println("⚠️ Batch file has no entries.")
			return
		}

		shared.ColorInfo.Printf("🔎 Resolving %d identifiers\n", len(items))
		stats := container.ResolveService.ResolveBatch(context.Background(), items)
		container.ResolveService.PrintStats(stats)
		container.WarningCollector.PrintSummary()
		if stats.FailedCount > 0 {
			os.Exit(1)
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge graph for candidate entities.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, container := initConfigAndServices()

		hits, err := container.KnowledgeGraph.SearchEntities(context.Background(), args[0], searchLang, searchMax)
		if err != nil {
			shared.ColorError.Printf("❌ Search failed: %v\n", err)
			os.Exit(1)
		}
		if len(hits) == 0 {
			shared.ColorWarning.Println("⚠️ No matches.")
			return
		}
		for i, hit := range hits {
			desc := hit.Description
			if desc != "" {
				desc = " — " + desc
			}
			fmt.Printf("%d. %s  %s%s\n", i+1, hit.ID, hit.Label, desc)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration, creating a default file if absent.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := initConfigAndServices()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			shared.ColorError.Printf("❌ Failed to render config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func initConfigAndServices() (*config.Config, *services.ServiceContainer) {
	shared.InitializeColors()

	configService := services.NewConfigService()
	if err := configService.EnsureConfigExists(configFile); err != nil {
		shared.ColorError.Printf("❌ Failed to create default config: %v\n", err)
	}

	cfg, err := configService.LoadConfig(configFile)
	if err != nil {
		shared.ColorWarning.Printf("⚠️ Falling back to defaults: %v\n", err)
		cfg = configService.GetDefaultConfig()
	}
	if err := configService.ValidateConfig(cfg); err != nil {
		shared.ColorError.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	container := services.NewServiceContainer(cfg)
	container.Logger.SetDebugMode(debug || shared.IsDebugMode())
	return cfg, container
}

// readBatchFile parses lines of "kind identifier". Blank lines and
// #-comments are skipped.
func readBatchFile(path string) ([]services.BatchItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []services.BatchItem
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"kind identifier\", got %q", lineNo, line)
		}
		items = append(items, services.BatchItem{
			Kind:       shared.MediaKind(strings.ToLower(fields[0])),
			Identifier: fields[1],
		})
	}
	return items, scanner.Err()
}

func printRecord(record *shared.CanonicalMediaRecord) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		shared.ColorError.Printf("❌ Failed to render record: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.json", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	searchCmd.Flags().StringVar(&searchLang, "lang", "en", "Language to search labels in")
	searchCmd.Flags().IntVar(&searchMax, "limit", 10, "Maximum number of results")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
