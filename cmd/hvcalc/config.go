package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/hypervol/internal/errors"
	"github.com/copyleftdev/hypervol/internal/hypervolume"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage calculator configuration files",
	}
	cmd.AddCommand(newConfigWriteCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigWriteCmd() *cobra.Command {
	var flags calcFlags
	cmd := &cobra.Command{
		Use:   "write <file>",
		Short: "Write a calculator configuration file",
		Long: `Writes the default calculator configuration, adjusted by the given flags,
to a .json, .yaml or .toml file for use with compute --config or
HV_CONFIG_FILE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := hypervolume.NewCalculator()
			flags.apply(cmd, calc)
			if calc.UseApproximation {
				if err := calc.Approximator.Validate(); err != nil {
					return err
				}
			}
			if err := calc.SaveConfigFile(args[0]); err != nil {
				return errors.Wrapf(err, "write calculator config %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the effective configuration of a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := hypervolume.NewCalculator()
			if err := calc.LoadConfigFile(args[0]); err != nil {
				return errors.Wrapf(err, "load calculator config %s", args[0])
			}
			return calc.SaveConfig(cmd.OutOrStdout(), hypervolume.FormatJSON)
		},
	}
}
