package config

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/dancechain/pkg/block"
)

type Store struct {
	URL     string
	Codec   block.Codec
	Timeout time.Duration
}

type Sync struct {
	Interval    time.Duration
	MaxInterval time.Duration
	MaxFailures int
}

type Server struct {
	Address        string
	Port           int
	AllowedOrigins []string
}

const (
	Cfg_store_url     = "store.url"
	Cfg_store_codec   = "store.codec"
	Cfg_store_timeout = "store.timeout"

	Cfg_sync_interval    = "sync.interval"
	Cfg_sync_maxInterval = "sync.maxInterval"
	Cfg_sync_maxFailures = "sync.maxFailures"

	Cfg_server_address        = "server.address"
	Cfg_server_port           = "server.port"
	Cfg_server_allowedOrigins = "server.allowedOrigins"
)

var (
	networkDefaults = map[string]interface{}{
		Cfg_store_url:     "http://localhost:8080",
		Cfg_store_codec:   string(block.CodecJSON),
		Cfg_store_timeout: 10 * time.Second,

		Cfg_sync_interval:    time.Second,
		Cfg_sync_maxInterval: time.Second,
		Cfg_sync_maxFailures: 10,

		Cfg_server_address:        "0.0.0.0",
		Cfg_server_port:           8080,
		Cfg_server_allowedOrigins: []string{"*"},
	}
)

func init() {
	for k, v := range networkDefaults {
		viper.SetDefault(k, v)
	}
}

func buildStoreConfig() (*Store, error) {
	c := &Store{
		URL:     viper.GetString(Cfg_store_url),
		Timeout: viper.GetDuration(Cfg_store_timeout),
	}

	if _, err := url.Parse(c.URL); err != nil {
		return nil, errors.Wrap(err, "parsing store url")
	}

	codec, err := block.ParseCodec(viper.GetString(Cfg_store_codec))
	if err != nil {
		return nil, err
	}
	c.Codec = codec

	return c, nil
}

func buildSyncConfig() (*Sync, error) {
	c := &Sync{
		Interval:    viper.GetDuration(Cfg_sync_interval),
		MaxInterval: viper.GetDuration(Cfg_sync_maxInterval),
		MaxFailures: viper.GetInt(Cfg_sync_maxFailures),
	}

	if c.Interval <= 0 {
		return nil, errors.New("sync interval must be positive")
	}

	return c, nil
}

func buildServerConfig() (*Server, error) {
	c := &Server{
		Address:        viper.GetString(Cfg_server_address),
		Port:           viper.GetInt(Cfg_server_port),
		AllowedOrigins: viper.GetStringSlice(Cfg_server_allowedOrigins),
	}

	if c.Port < 0 || c.Port > 65535 {
		return nil, errors.Errorf("invalid port %d", c.Port)
	}

	return c, nil
}
