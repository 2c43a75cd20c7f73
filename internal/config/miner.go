package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Miner struct {
	// Name defaults to the placeholder, which the miner refuses
	Name          string
	MaxIterations uint64
	Delay         time.Duration
	MetricsAddr   string
}

const (
	Cfg_miner_name          = "miner.name"
	Cfg_miner_maxIterations = "miner.maxIterations"
	Cfg_miner_delay         = "miner.delay"
	Cfg_miner_metricsAddr   = "miner.metricsAddr"
)

var (
	minerDefaults = map[string]interface{}{
		Cfg_miner_name:          "",
		Cfg_miner_maxIterations: 1000,
		Cfg_miner_delay:         10 * time.Millisecond,
		Cfg_miner_metricsAddr:   "",
	}
)

func init() {
	for k, v := range minerDefaults {
		viper.SetDefault(k, v)
	}
}

func buildMinerConfig() (*Miner, error) {
	c := &Miner{
		Name:          viper.GetString(Cfg_miner_name),
		MaxIterations: viper.GetUint64(Cfg_miner_maxIterations),
		Delay:         viper.GetDuration(Cfg_miner_delay),
		MetricsAddr:   viper.GetString(Cfg_miner_metricsAddr),
	}

	if c.Name == "" {
		c.Name = viper.GetString(Cfg_chain_placeholderMiner)
	}

	if c.MaxIterations == 0 {
		return nil, errors.New("max iterations must be greater than 0")
	}

	return c, nil
}
