package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/openpaws/policyradar/internal/model"
	"github.com/openpaws/policyradar/internal/pipeline"
)

var (
	sweepTimeout  time.Duration
	sweepStore    string
	sweepSite     string
	sweepLLM      bool
	sweepLLMModel string
	sweepNotify   bool
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one discovery pass over all watched sites",
	Long: `Sweep fetches every configured publication site, extracts candidate
policy documents, dedups them against the stored collection, scores the
new ones for animal welfare relevance, and (optionally) sends email
notifications with draft responses.

Sites are processed sequentially; a failing site is reported and skipped.

Example:
  policyradar sweep
  policyradar sweep --site awbi --llm --notify
  policyradar sweep --store /var/lib/policyradar/policies.json`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().DurationVar(&sweepTimeout, "timeout", 10*time.Minute, "overall sweep timeout")
	sweepCmd.Flags().StringVar(&sweepStore, "store", "", "policy store path (overrides config)")
	sweepCmd.Flags().StringVar(&sweepSite, "site", "", "only sweep sites whose name contains this string")
	sweepCmd.Flags().BoolVar(&sweepLLM, "llm", false, "enable oracle-backed scoring and descriptions")
	sweepCmd.Flags().StringVar(&sweepLLMModel, "llm-model", "", "oracle model name")
	sweepCmd.Flags().BoolVar(&sweepNotify, "notify", false, "send email notifications for relevant records")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if sweepStore != "" {
		cfg.Store.Path = sweepStore
	}
	if sweepLLM {
		cfg.LLM.Provider = "openai"
		if sweepLLMModel != "" {
			cfg.LLM.Model = sweepLLMModel
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	} else {
		cfg.LLM.Provider = ""
	}
	if sweepNotify {
		cfg.Notify.Enabled = true
	}
	if sweepSite != "" {
		var filtered []model.SiteProfile
		needle := strings.ToLower(sweepSite)
		for _, site := range cfg.Sites {
			if strings.Contains(strings.ToLower(site.Name), needle) ||
				strings.Contains(strings.ToLower(site.BaseURL), needle) {
				filtered = append(filtered, site)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no configured site matches %q", sweepSite)
		}
		cfg.Sites = filtered
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	p := pipeline.New(cfg)
	defer p.Close()

	if verbose {
		fmt.Fprintf(os.Stderr, "Sweeping %d sites (store: %s)\n", len(cfg.Sites), cfg.Store.Path)
	}

	report, err := p.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Sites swept:   %d (%d failed)\n", report.Sites, report.FailedSites)
	fmt.Printf("Discovered:    %d\n", report.Discovered)
	fmt.Printf("Added:         %d\n", report.Added)
	fmt.Printf("Analyzed:      %d\n", report.Analyzed)
	fmt.Printf("Relevant:      %d\n", report.Relevant)
	fmt.Printf("Notified:      %d\n", report.Notified)

	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
	}

	return nil
}
