package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/dancechain/internal/coinflip"
	"github.com/tcfw/dancechain/pkg/storage"
	"gopkg.in/yaml.v3"
)

var (
	genesisCmd = &cobra.Command{
		Use:   "genesis",
		Short: "solve a genesis block and print it as a config snippet",
		RunE:  runGenesis,
	}
)

func init() {
	genesisCmd.Flags().String("chain-id", "dancechain", "chain identifier recorded with the genesis")
}

func runGenesis(cmd *cobra.Command, args []string) error {
	chainID, _ := cmd.Flags().GetString("chain-id")
	difficulty := cfg.Chain().Difficulty

	src := coinflip.NewSource()
	info := storage.SolveGenesisInfo(chainID, difficulty, src)

	enc, err := storage.EncodeGenesisInfo(info)
	if err != nil {
		return errors.Wrap(err, "encoding genesis")
	}

	snippet := map[string]map[string]interface{}{
		"chain": {
			"difficulty": difficulty,
			"genesis":    enc,
		},
	}

	out := yaml.NewEncoder(cmd.OutOrStdout())
	defer out.Close()

	return out.Encode(snippet)
}
