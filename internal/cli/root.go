package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/openpaws/policyradar/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "policyradar",
	Short: "PolicyRadar - government consultation watcher for animal welfare policy",
	Long: `PolicyRadar watches government publication pages for policy consultations
and circulars relevant to animal welfare.

It extracts candidate documents from heterogeneous listing pages and PDFs,
normalizes them into deduplicated policy records with response deadlines,
scores them for relevance, and prepares draft responses and notifications.

Extraction is best-effort by design: selector profiles are tried first,
keyword scanning second, and every oracle-backed step has a deterministic
fallback so a sweep always completes.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("policyradar v0.3.2")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.policyradar/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and POLICYRADAR_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.policyradar")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("POLICYRADAR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the runtime configuration: defaults, overlaid with the
// YAML config file when one was found, then environment overrides.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot read %s: %v (using defaults)\n", path, err)
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot parse %s: %v (using defaults)\n", path, err)
			cfg = model.DefaultConfig()
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
	if pw := os.Getenv("POLICYRADAR_SMTP_PASSWORD"); pw != "" {
		cfg.Notify.Password = pw
	}
	if path := viper.GetString("store_path"); path != "" {
		cfg.Store.Path = path
	}
	cfg.Verbose = verbose

	if len(cfg.Sites) == 0 {
		cfg.Sites = model.DefaultSites()
	}

	return cfg
}
