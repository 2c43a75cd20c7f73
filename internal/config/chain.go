package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/tcfw/dancechain/pkg/storage"
)

type Chain struct {
	Difficulty       uint32
	PlaceholderMiner string

	// Genesis is set when a genesis block is pinned
	Genesis *storage.GenesisInfo
}

func (c *Chain) Rules() block.Rules {
	return block.Rules{
		Difficulty:       c.Difficulty,
		PlaceholderMiner: c.PlaceholderMiner,
	}
}

const (
	Cfg_chain_difficulty       = "chain.difficulty"
	Cfg_chain_placeholderMiner = "chain.placeholderMiner"
	Cfg_chain_genesisInfo      = "chain.genesis"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_difficulty:       25,
		Cfg_chain_placeholderMiner: "changemeyoufool",
		Cfg_chain_genesisInfo:      "",
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{
		Difficulty:       viper.GetUint32(Cfg_chain_difficulty),
		PlaceholderMiner: viper.GetString(Cfg_chain_placeholderMiner),
	}

	if c.PlaceholderMiner == "" {
		return nil, errors.New("placeholder miner cannot be empty")
	}

	gcfg := viper.GetString(Cfg_chain_genesisInfo)
	if gcfg == "" {
		return c, nil
	}

	gi, err := storage.DecodeGenesisInfo(gcfg)
	if err != nil {
		return nil, errors.Wrap(err, "decoding genesis info")
	}

	if !gi.Block.IsGenesis(c.Difficulty) {
		return nil, errors.Errorf("pinned genesis does not meet difficulty %d", c.Difficulty)
	}

	c.Genesis = gi

	return c, nil
}
