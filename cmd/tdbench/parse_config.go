package main

import (
	"strings"

	"github.com/blagojts/viper"
	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/internal/utils"
	"github.com/tdbench/tdbench/load"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/constants"
)

// loadConfig is everything a run needs, resolved from flags and config file.
type loadConfig struct {
	runner   load.BenchmarkRunnerConfig
	target   targets.Config
	protocol targets.Protocol
	schema   *schema.Schema
}

func parseConfig(v *viper.Viper) (*loadConfig, error) {
	var c loadConfig
	if err := v.Unmarshal(&c.runner); err != nil {
		return nil, errors.Wrap(err, "could not parse runner config")
	}
	start, err := utils.ParseTimestampMillis(v.GetString("start-timestamp"))
	if err != nil {
		return nil, errors.Wrap(load.ErrInvalidConfig, err.Error())
	}
	c.runner.StartTimestamp = start
	if err := c.runner.Validate(); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&c.target); err != nil {
		return nil, errors.Wrap(err, "could not parse connection config")
	}
	c.target.SMLProtocol = strings.ToLower(c.target.SMLProtocol)
	if !utils.IsIn(c.target.SMLProtocol, constants.SupportedSMLProtocols()) {
		return nil, errors.Wrapf(load.ErrInvalidConfig, "unknown sml protocol %q, valid: %s",
			c.target.SMLProtocol, strings.Join(constants.SupportedSMLProtocols(), ", "))
	}

	c.protocol, err = targets.ParseProtocol(v.GetString("protocol"))
	if err != nil {
		return nil, err
	}

	c.schema, err = schema.Parse(
		schema.SplitTokens(v.GetString("data-type")),
		schema.SplitTokens(v.GetString("tag-type")),
		schema.Options{DefaultWidth: v.GetInt("binwidth"), ColumnCount: v.GetInt("columns")},
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
