package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-talkshow/internal/data/source"
	"github.com/penwyp/go-talkshow/internal/util"
)

var (
	// Logging related
	debug bool

	// Data source
	apiURL string

	// Display related
	timezone string

	// Config file
	configFile string

	rootCmd = &cobra.Command{
		Use:   "go-talkshow [flags]",
		Short: "Timeline viewer for TalkShow conversation sessions",
		Long: `go-talkshow lays out recorded TalkShow conversation sessions on a shared time axis.

Each session is a column, every conversation turn sits at the row of its timestamp, and session
contents are loaded progressively as columns scroll into view.

Examples:
  go-talkshow                                   # Interactive timeline from the default data source
  go-talkshow --api http://10.0.0.5:8000        # Use another data source
  go-talkshow --since week --search pasta       # Start filtered
  go-talkshow render --width 160                # Print one static frame
  go-talkshow export --format toml              # Write a snapshot of all sessions
  go-talkshow serve --data ./web_sessions.json  # Serve a storage file as the data source
  go-talkshow parse ./.specstory/history        # Build the storage file from markdown exports`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runView,
	}
)

const (
	defaultLogFile    = "~/.go-talkshow/logs/app.log"
	defaultConfigFile = "~/.go-talkshow/config.toml"
	defaultDataFile   = "~/.go-talkshow/data/web_sessions.json"
)

// configKeys are the flags a config file may provide; flags given on the command line win
var configKeys = []string{"api", "timezone", "eager", "data", "addr"}

func init() {
	// Data source
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", source.DefaultBaseURL,
		"Base URL of the TalkShow data source")

	// Display
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile,
		"Config file (TOML)")

	// The root command runs the viewer
	addViewFlags(rootCmd)
}

// setup applies the config file and initializes logging and the time provider for every command
func setup(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	// the viewer owns the terminal, so its debug output only goes to the log file
	console := debug && !isViewer(cmd)
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, console); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return util.InitializeTimeProvider(timezone)
}

func isViewer(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "view"
}

// loadConfig fills flags that were not given from the config file; a missing file is not an error
func loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetConfigFile(expandPath(configFile))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}

	for _, key := range configKeys {
		flag := cmd.Flags().Lookup(key)
		if flag == nil || flag.Changed || !v.IsSet(key) {
			continue
		}
		if err := flag.Value.Set(v.GetString(key)); err != nil {
			return fmt.Errorf("invalid value for %s in %s: %w", key, v.ConfigFileUsed(), err)
		}
	}
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
