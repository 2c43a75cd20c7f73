package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tcfw/dancechain/internal/utils/logging"
)

const (
	Cfg_verbose   = "verbose"
	Cfg_logFormat = "logFormat"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose:   false,
		Cfg_logFormat: "text",
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("dancechain")
	viper.AddConfigPath("/etc/dancechain/")
	viper.AddConfigPath("$HOME/.dancechain")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("DANCECHAIN")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return build()
}

func build() (*Config, error) {
	var err error
	c := &Config{}

	logging.SetFormat(viper.GetString(Cfg_logFormat))
	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	c.chain, err = buildChainConfig()
	if err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	c.miner, err = buildMinerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "miner config")
	}

	c.store, err = buildStoreConfig()
	if err != nil {
		return nil, errors.Wrap(err, "store config")
	}

	c.sync, err = buildSyncConfig()
	if err != nil {
		return nil, errors.Wrap(err, "sync config")
	}

	c.server, err = buildServerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "server config")
	}

	return c, nil
}

type Config struct {
	chain  *Chain
	miner  *Miner
	store  *Store
	sync   *Sync
	server *Server
}

func (c *Config) Chain() *Chain {
	return c.chain
}

func (c *Config) Miner() *Miner {
	return c.miner
}

func (c *Config) Store() *Store {
	return c.store
}

func (c *Config) Sync() *Sync {
	return c.sync
}

func (c *Config) Server() *Server {
	return c.server
}
