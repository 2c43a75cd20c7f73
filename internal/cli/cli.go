package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/dancechain/internal/api"
	"github.com/tcfw/dancechain/internal/config"
	"github.com/tcfw/dancechain/internal/utils/logging"
)

var (
	rootCmd = &cobra.Command{
		Use:               "dancechain",
		Short:             "proof-of-work dance move ledger",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().Uint32P("difficulty", "d", 25, "proof-of-work difficulty in bits")
	viper.BindPFlag(config.Cfg_chain_difficulty, rootCmd.PersistentFlags().Lookup("difficulty"))

	rootCmd.PersistentFlags().String("store", "http://localhost:8080", "block store url")
	viper.BindPFlag(config.Cfg_store_url, rootCmd.PersistentFlags().Lookup("store"))
}

func Execute() error {
	regCommands()

	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	logging.SetOutput(cmd.ErrOrStderr())

	c, err := config.GetConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	cfg = c

	return nil
}

func newStoreClient() (*api.Client, error) {
	s := cfg.Store()

	return api.NewClient(s.URL,
		api.WithCodec(s.Codec),
		api.WithTimeout(s.Timeout),
	)
}

// waitExit returns a context cancelled on SIGINT or SIGTERM
func waitExit(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
