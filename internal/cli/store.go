package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openpaws/policyradar/internal/pipeline"
	"github.com/openpaws/policyradar/internal/store"
)

var (
	statsStore  string
	clearStore  string
	clearForce  bool
	repairStore string
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show policy collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if statsStore != "" {
			cfg.Store.Path = statsStore
		}

		st, err := store.New(cfg.Store.Path).Stats()
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}

		fmt.Printf("Total:    %d\n", st.Total)
		fmt.Printf("Analyzed: %d\n", st.Analyzed)
		fmt.Printf("Pending:  %d\n", st.Pending)
		fmt.Printf("Relevant: %d\n", st.Relevant)
		fmt.Printf("Urgent:   %d (deadline within %d days)\n", st.Urgent, store.UrgentWindowDays)
		return nil
	},
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the entire policy collection",
	Long:  `Clear removes every stored policy record. This is irreversible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce {
			return fmt.Errorf("refusing to clear without --force")
		}

		cfg := loadConfig()
		if clearStore != "" {
			cfg.Store.Path = clearStore
		}

		if err := store.New(cfg.Store.Path).Clear(); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		fmt.Println("Policy collection cleared.")
		return nil
	},
}

// repairCmd represents the repair command
var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Regenerate garbled descriptions in the stored collection",
	Long: `Repair scans stored records for descriptions contaminated by binary
data (a symptom of failed PDF text extraction) and rebuilds them from the
record's own structural signals. No oracle calls are made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if repairStore != "" {
			cfg.Store.Path = repairStore
		}
		cfg.LLM.Provider = ""
		cfg.Notify.Enabled = false

		p := pipeline.New(cfg)
		defer p.Close()

		repaired, err := p.RepairGarbled()
		if err != nil {
			return fmt.Errorf("repair: %w", err)
		}
		fmt.Printf("Repaired %d records.\n", repaired)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(repairCmd)

	statsCmd.Flags().StringVar(&statsStore, "store", "", "policy store path (overrides config)")
	clearCmd.Flags().StringVar(&clearStore, "store", "", "policy store path (overrides config)")
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "confirm irreversible clear")
	repairCmd.Flags().StringVar(&repairStore, "store", "", "policy store path (overrides config)")
}
