package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/dancechain/internal/config"
	"github.com/tcfw/dancechain/internal/metrics"
	"github.com/tcfw/dancechain/internal/miner"
	"github.com/tcfw/dancechain/internal/network"
	"github.com/tcfw/dancechain/internal/utils/logging"
	"github.com/tcfw/dancechain/internal/utils/queue"
	"github.com/tcfw/dancechain/pkg/block"
)

var (
	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "mine blocks on the longest chain of the store",
		RunE:  runMine,
	}
)

func init() {
	mineCmd.Flags().StringP("miner-name", "m", "", "name recorded in mined blocks")
	viper.BindPFlag(config.Cfg_miner_name, mineCmd.Flags().Lookup("miner-name"))

	mineCmd.Flags().Uint64("max-iter", 1000, "nonces tried per attempt to extend the chain")
	viper.BindPFlag(config.Cfg_miner_maxIterations, mineCmd.Flags().Lookup("max-iter"))

	mineCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	viper.BindPFlag(config.Cfg_miner_metricsAddr, mineCmd.Flags().Lookup("metrics-addr"))

	mineCmd.Flags().String("codec", "json", "encoding requested when fetching blocks (json, msgpack)")
	viper.BindPFlag(config.Cfg_store_codec, mineCmd.Flags().Lookup("codec"))
}

func runMine(cmd *cobra.Command, args []string) error {
	ctx, cancel := waitExit(context.Background())
	defer cancel()

	chainCfg := cfg.Chain()
	minerCfg := cfg.Miner()
	syncCfg := cfg.Sync()

	reg := prometheus.NewRegistry()

	opts := []miner.Option{
		miner.WithName(minerCfg.Name),
		miner.WithDifficulty(chainCfg.Difficulty),
		miner.WithPlaceholder(chainCfg.PlaceholderMiner),
		miner.WithMaxIterations(minerCfg.MaxIterations),
		miner.WithDelay(minerCfg.Delay),
		miner.WithMetrics(metrics.NewMiner(reg)),
	}
	if chainCfg.Genesis != nil {
		opts = append(opts, miner.WithGenesis(chainCfg.Genesis.Block))
	}

	m, err := miner.New(opts...)
	if err != nil {
		return errors.Wrap(err, "initing miner")
	}

	client, err := newStoreClient()
	if err != nil {
		return errors.Wrap(err, "initing store client")
	}

	syncer, err := network.NewSyncer(client,
		network.WithInterval(syncCfg.Interval),
		network.WithMaxInterval(syncCfg.MaxInterval),
		network.WithMaxFailures(syncCfg.MaxFailures),
		network.WithMetrics(metrics.NewSync(reg)),
	)
	if err != nil {
		return errors.Wrap(err, "initing sync")
	}

	if minerCfg.MetricsAddr != "" {
		go serveMetrics(ctx, minerCfg.MetricsAddr, reg)
	}

	mined := queue.NewUnbounded[block.Block]()
	defer mined.Close()

	batches := make(chan []block.Block, 1)

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- syncer.Run(ctx, mined.Out(), batches)
	}()

	if err := m.Run(ctx, batches, mined.In()); err != nil {
		if errors.Is(err, context.Canceled) {
			<-syncErr
			return nil
		}
		return err
	}

	//the miner only stops on its own once sync has gone
	if err := <-syncErr; err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "network failure")
	}

	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logging.Entry().WithField("addr", addr).Info("serving metrics")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.WithError(err).Error("metrics listener")
	}
}
