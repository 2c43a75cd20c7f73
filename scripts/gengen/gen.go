package main

import (
	"flag"
	"fmt"

	"github.com/tcfw/dancechain/internal/coinflip"
	"github.com/tcfw/dancechain/pkg/storage"
)

func main() {
	chainID := flag.String("chain-id", "testnet", "chain identifier")
	difficulty := flag.Uint("d", 25, "difficulty in bits")
	flag.Parse()

	src := coinflip.NewSource()
	config := storage.SolveGenesisInfo(*chainID, uint32(*difficulty), src)

	b64, err := storage.EncodeGenesisInfo(config)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Genesis Config:\n%s", b64)
}
