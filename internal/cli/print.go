package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/tcfw/dancechain/pkg/chain"
	"gopkg.in/yaml.v3"
)

const separator = "-----------------------------------"

var (
	printCmd = &cobra.Command{
		Use:   "print",
		Short: "print the chains held by the store",
		RunE:  runPrint,
	}
)

func init() {
	printCmd.Flags().StringP("output", "o", "text", "output format (text, yaml, json)")
}

type chainBlock struct {
	Hash      string `json:"hash" yaml:"hash"`
	Miner     string `json:"miner" yaml:"miner"`
	Nonce     uint64 `json:"nonce" yaml:"nonce"`
	DanceMove string `json:"dancemove" yaml:"dancemove"`
}

type chainReport struct {
	Genesis      chainBlock   `json:"genesis" yaml:"genesis"`
	Blocks       int          `json:"blocks" yaml:"blocks"`
	Depth        int          `json:"depth" yaml:"depth"`
	Remaining    int          `json:"remaining" yaml:"remaining"`
	LongestChain []chainBlock `json:"longest_chain" yaml:"longest_chain"`

	tree *chain.Tree
}

func runPrint(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := newStoreClient()
	if err != nil {
		return errors.Wrap(err, "initing store client")
	}

	blocks, err := client.Blocks(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching blocks from store")
	}

	return printChains(cmd.OutOrStdout(), blocks, cfg.Chain().Difficulty, output)
}

// buildReports builds one tree per genesis block found in blocks
func buildReports(blocks []block.Block, difficulty uint32) []*chainReport {
	reports := []*chainReport{}

	for _, g := range blocks {
		if !g.IsGenesis(difficulty) {
			continue
		}

		tree := chain.NewTree(g)
		remaining := tree.Merge(blocks)

		longest := tree.LongestChain()
		r := &chainReport{
			Genesis:      toChainBlock(g),
			Blocks:       tree.Len(),
			Depth:        len(longest),
			Remaining:    len(remaining),
			LongestChain: make([]chainBlock, 0, len(longest)),
			tree:         tree,
		}
		for _, b := range longest {
			r.LongestChain = append(r.LongestChain, toChainBlock(b))
		}

		reports = append(reports, r)
	}

	return reports
}

func toChainBlock(b block.Block) chainBlock {
	return chainBlock{
		Hash:      b.Hash().String(),
		Miner:     b.Miner,
		Nonce:     b.Nonce,
		DanceMove: b.DanceMove.String(),
	}
}

func printChains(w io.Writer, blocks []block.Block, difficulty uint32, output string) error {
	reports := buildReports(blocks, difficulty)

	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
	default:
		return errors.Errorf("unknown output format %q", output)
	}

	if len(reports) == 0 {
		fmt.Fprintln(w, "No genesis blocks found")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(w, "Blockchain with genesis from %s\n", r.Genesis.Miner)
		if err := r.tree.Render(w); err != nil {
			return err
		}
		fmt.Fprintf(w, "Longest chain length: %d\n", r.Depth)
		fmt.Fprintf(w, "Remaining blocks: %d\n", r.Remaining)
		fmt.Fprintln(w, separator)
	}

	return nil
}
