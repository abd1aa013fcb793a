package app

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the countries CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command. The tool is a
// single command: running it executes the full pipeline.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "countries",
		Short:   "Build the country reference table",
		Version: a.version,
		Long: `Countries builds a reference table mapping countries and territories to
geographic centroids, UN M49 statistical codes, ISO codes, and
region/subregion membership.

It fetches a country-centroid CSV and the UN M49 classification table,
reconciles them into one dataset, and writes the result as a CSV file.
A bare invocation needs no configuration: the source URLs are pinned
and the output is written to countries.csv in the working directory.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}
			return pipeline.Run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVarP(&a.config.OutputPath, "output", "o", a.config.OutputPath, "output file path")
	rootCmd.Flags().StringVar(&a.config.CentroidsURL, "centroids-url", a.config.CentroidsURL, "centroid CSV source URL")
	rootCmd.Flags().StringVar(&a.config.M49URL, "m49-url", a.config.M49URL, "UN M49 overview page URL")

	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("countries {{.Version}}\n")

	return rootCmd
}

// setupCommand is called before the command runs. It rebuilds the
// logger so flag-driven level changes take effect.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	a.config.LogLevelFromFlag = cmd.Flags().Changed("log-level")
	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}
