package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ka2n/recview/api"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/config"
	"github.com/ka2n/recview/mcp"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	configFlag  string
	dataFlag    string
	dedupFlag   bool
	timeoutFlag time.Duration

	// Root command
	rootCmd = &cobra.Command{
		Use:           "recview [data-file]",
		Short:         "Browse records and their images",
		SilenceErrors: true,
		Long: `recview is a CLI tool for browsing records stored as "key:value,key:value" strings.
Selecting a record downloads its three images concurrently and opens a detail page
only when every image loaded.

Without a data file the bundled dataset is used. The data file is a JSON array or
a YAML list of raw record strings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRoot,
	}

	// Version information
	Version = api.Version
	Commit  = api.VersionCommit
	Date    = "unknown"

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information about recview",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("recview version %s\n", Version)
			fmt.Printf("  commit: %s\n", Commit)
			fmt.Printf("  built:  %s\n", Date)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dataFlag, "data", "d", "", "Raw record file (JSON array or YAML list of strings)")
	rootCmd.PersistentFlags().BoolVar(&dedupFlag, "dedup", false, "Share one download between concurrent requests for the same image")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Image request timeout (default 30s)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcp.Command(func(cmd *cobra.Command) (*api.Service, error) {
		return newService(cmd, nil)
	}))
}

// Run executes the main CLI functionality
func Run() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	s, err := newService(cmd, args)
	if err != nil {
		return err
	}
	return RunBrowser(cmd.Context(), s, s.Records())
}

// loadConfig merges the config file, flags and the optional data file argument.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if configFlag != "" {
		var err error
		cfg, err = config.LoadFile(configFlag)
		if err != nil {
			return nil, failure.Wrap(err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data = dataFlag
	}
	if len(args) > 0 {
		cfg.Data = args[0]
	}
	if flags.Changed("dedup") {
		cfg.Fetch.Deduplicate = dedupFlag
	}
	if flags.Changed("timeout") && timeoutFlag > 0 {
		cfg.Fetch.Timeout = timeoutFlag
	}
	return cfg, nil
}

func newService(cmd *cobra.Command, args []string) (*api.Service, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	return api.NewService(cfg, nil), nil
}

// recordAt resolves a record index argument.
func recordAt(records []record.Record, arg string) (record.Record, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return record.Record{}, failure.New(InvalidArguments,
			failure.Message("Record index must be a number"),
			failure.Context{"index": arg},
		)
	}
	if index < 0 || index >= len(records) {
		return record.Record{}, failure.New(RecordNotFound,
			failure.Message(fmt.Sprintf("No record at index %d (have %d)", index, len(records))),
			failure.Context{"index": arg},
		)
	}
	return records[index], nil
}
