package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive question timeline",
	Long: `Starts the terminal client. Questions are simplified by the in-process relay,
or by a remote 'stepwise serve' when --relay-url is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("relay-url") {
			cfg.RelayURL, _ = cmd.Flags().GetString("relay-url")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Driver, _ = cmd.Flags().GetString("store")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer closeLog()
		plain, _ := cmd.Flags().GetBool("plain")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.Run(ctx, cli.RunOptions{
			Config:   cfg,
			Version:  stepwise.Version,
			Plain:    plain,
			NoBanner: noBanner,
			In:       os.Stdin,
			Out:      os.Stdout,
			Logger:   logger,
		})
		if sig := ctx.Signal(); sig != nil && (err == nil || errors.Is(err, ctx.Err())) {
			fmt.Printf("\nInterrupted (%v). Timeline saved.\n", sig)
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("relay-url", "", "Base URL of a remote relay (default: in-process)")
	runCmd.Flags().String("store", "", "Store driver: memory, file, sqlite, redis")
	runCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")

	// Make 'run' the default if no command is provided
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
