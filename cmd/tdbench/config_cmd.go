package main

import (
	"fmt"
	"io/ioutil"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

const writeConfigTo = "./config.yaml"

func initConfigCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate example config yaml file and save it to " + writeConfigTo,
		Args:  cobra.NoArgs,
		// the root's hook would read the file this command is about to write
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			if err := writeExampleConfig(cmd.Flags(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote example config to: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", writeConfigTo, "File to write the example config to")
	addLoadFlags(cmd.Flags())
	return cmd
}

// writeExampleConfig writes the load flags in fs, with their current values,
// as a YAML config file.
func writeExampleConfig(fs *pflag.FlagSet, file string) error {
	loadFlags := pflag.NewFlagSet("", pflag.ContinueOnError)
	addLoadFlags(loadFlags)
	settings := make(map[string]interface{})
	loadFlags.VisitAll(func(f *pflag.Flag) {
		if set := fs.Lookup(f.Name); set != nil {
			settings[f.Name] = flagValue(set)
		}
	})

	configInBytes, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "could not convert example config to yaml")
	}
	if err := ioutil.WriteFile(file, configInBytes, 0644); err != nil {
		return errors.Wrapf(err, "could not write sample config to file %s", file)
	}
	return nil
}

// flagValue returns the value of f typed for YAML, so numbers and booleans
// are not written as quoted strings.
func flagValue(f *pflag.Flag) interface{} {
	s := f.Value.String()
	switch f.Value.Type() {
	case "bool":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	case "int", "int64":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "uint", "uint64":
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	case "float64":
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return s
}
