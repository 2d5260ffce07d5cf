package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"i3pamicstatus/config"
	"i3pamicstatus/doctor"
	"i3pamicstatus/indicator"
)

type rootOptions struct {
	showMuted   bool
	configPath  string
	logPath     string
	noIndicator bool
}

type app struct {
	opts rootOptions
	code int

	runRelay  func(rootOptions) int
	runDoctor func(rootOptions) int
}

func execute(args []string) int {
	a := &app{runRelay: runRelay, runDoctor: runDoctor}
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return a.code
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "i3pamicstatus",
		Short: "Append the PulseAudio microphone state to i3status output",
		Long: `i3pamicstatus reads the i3bar protocol from stdin, appends a block showing
whether the microphone is in use (or muted, with --show-muted) and writes the
result to stdout. Use it as: status_command i3status | i3pamicstatus`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// i3 configs outlive releases; flags we do not know are ignored.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.code = a.runRelay(a.opts)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.opts.showMuted, "show-muted", false, "Show whether the default source is muted instead of whether any source is recording")
	flags.StringVar(&a.opts.configPath, "config", "", "Configuration file path (default: $XDG_CONFIG_HOME/i3pamicstatus/config.toml)")
	flags.StringVar(&a.opts.logPath, "logpath", "", "Log directory path (default: OS-specific location)")
	flags.BoolVar(&a.opts.noIndicator, "no-indicator", false, "Do not drive the indicator light")

	root.AddCommand(
		newDoctorCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

func newDoctorCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the sound server and indicator light",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.code = a.runDoctor(a.opts)
			return nil
		},
	}
}

func runDoctor(opts rootOptions) int {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	light := indicator.Detect(cfg.Indicator.Enabled && !opts.noIndicator, cfg.IndicatorColors())
	return doctor.New(cfg.ClientName, light).Run()
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.opts.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "i3pamicstatus %s\n", version)
		},
	}
}
