package cli

import (
	"context"
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/dancechain/internal/api"
	"github.com/tcfw/dancechain/internal/config"
	"github.com/tcfw/dancechain/internal/utils/logging"
	"github.com/tcfw/dancechain/pkg/storage"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		RunE:  runServe,
		Short: "run the block store",
	}
)

func init() {
	serveCmd.Flags().StringP("address", "a", "0.0.0.0", "listen address")
	viper.BindPFlag(config.Cfg_server_address, serveCmd.Flags().Lookup("address"))

	serveCmd.Flags().IntP("port", "p", 8080, "listen port")
	viper.BindPFlag(config.Cfg_server_port, serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := waitExit(context.Background())
	defer cancel()

	chainCfg := cfg.Chain()
	srvCfg := cfg.Server()

	store := storage.NewMemStore(storage.NewRulesValidator(chainCfg.Rules()))

	if chainCfg.Genesis != nil {
		g := chainCfg.Genesis.Block
		if err := store.Put(&g); err != nil {
			return errors.Wrap(err, "seeding pinned genesis")
		}
		logging.Entry().WithField("chain", chainCfg.Genesis.ChainID).Info("seeded pinned genesis")
	}

	srv, err := api.NewServer(store, api.WithAllowedOrigins(srvCfg.AllowedOrigins))
	if err != nil {
		return errors.Wrap(err, "initing api")
	}
	defer srv.Shutdown(context.Background())

	errCh := make(chan error, 1)

	go func() {
		addr := net.JoinHostPort(srvCfg.Address, strconv.Itoa(srvCfg.Port))
		if err := srv.ListenAndServe(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
