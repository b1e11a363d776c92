package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aitrending",
		Short:         "Rank trending AI repositories from published daily snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(dashboardCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(growthCmd())
	root.AddCommand(taxonomyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

// viewFlags are the selections shared by the listing commands. Empty values
// keep the configured defaults.
type viewFlags struct {
	rangeName string
	sort      string
	limit     int
	json      bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rangeName, "range", "", "time range: daily, weekly or monthly (default: from config)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort mode: composite, trend or stars (default: from config)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "max repositories to show, 0 for all (default: from config)")
	cmd.Flags().BoolVar(&f.json, "json", false, "output as JSON")
}

// limitFor returns the --limit value only when it was given.
func (f *viewFlags) limitFor(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("limit") {
		return nil
	}
	return &f.limit
}

func dashboardCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the ranked trending list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func categoriesCmd() *cobra.Command {
	var (
		flags    viewFlags
		scheme   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Explore trending repositories by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategories(cmd, flags, scheme, category)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&scheme, "scheme", "", "category scheme: tags or topics (default: from config)")
	cmd.Flags().StringVar(&category, "category", "", "category to list (default: All)")
	return cmd
}

func growthCmd() *cobra.Command {
	var (
		rangeName string
		details   int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "growth [owner/repo]",
		Short: "Show top growers and the star history of one repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return runGrowth(cmd, target, rangeName, details, jsonOut)
		},
	}

	cmd.Flags().StringVar(&rangeName, "range", "", "time range of the top growers list (default: from config)")
	cmd.Flags().IntVar(&details, "details", 0, "also summarize the star history of the top N growers")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func taxonomyCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "List the AI category taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaxonomy(cmd, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with refresher, alerts and HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
