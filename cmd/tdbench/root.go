package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/blagojts/viper"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tdbench/tdbench/internal/utils"
	"github.com/tdbench/tdbench/load"
	"github.com/tdbench/tdbench/pkg/targets/initializers"
)

var cfgFile string

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tdbench",
		Short:        "Load synthesized rows into a TDengine super table and its child tables",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViperConfig(v, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd.Context(), v)
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	addLoadFlags(cmd.Flags())

	cmd.AddCommand(initConfigCMD())
	return cmd
}

// initViperConfig binds the flags of the executed command and reads the
// config file. Flags set on the command line win over the file.
func initViperConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "could not bind flags")
	}
	if err := utils.SetupConfigFile(v, cfgFile); err != nil {
		return errors.Wrap(err, "could not read config file")
	}
	if used := v.ConfigFileUsed(); used != "" {
		logrus.WithField("file", used).Info("using config file")
	}

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func runLoad(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conf, err := parseConfig(v)
	if err != nil {
		return err
	}
	target, err := initializers.GetTarget(conf.protocol, conf.target, conf.schema)
	if err != nil {
		return err
	}
	runner, err := load.GetBenchmarkRunner(conf.runner, target, conf.schema)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if file := v.GetString("profile"); file != "" {
		go profileCPUAndMem(ctx, file)
	}

	logrus.WithFields(logrus.Fields{
		"protocol": conf.protocol,
		"db":       conf.runner.DBName,
		"tables":   conf.runner.Tables,
		"rows":     conf.runner.RowsPerTable,
		"workers":  conf.runner.Workers,
		"schedule": runner.Schedule().String(),
	}).Debug("starting load")
	res, err := runner.RunBenchmark(ctx)
	if err != nil && res != nil {
		return errors.Wrapf(err, "%d of %d workers failed", res.FailedWorkers, conf.runner.Workers)
	}
	return err
}
