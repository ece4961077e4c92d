package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	_ "github.com/lib/pq"

	access "github.com/onflow/flow-go-sdk/access/grpc"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/service/adapter"
	"github.com/agfarms/flow-custodian/service/keycrypt"
	"github.com/agfarms/flow-custodian/service/records"
	"github.com/agfarms/flow-custodian/service/resolver"
	"github.com/agfarms/flow-custodian/service/submitter"
	"github.com/agfarms/flow-custodian/service/transactor"
)

const (
	success = 0
	failure = 1
)

// masterKeyEnv names the environment variable holding the master secret for
// encrypted wallet keys, kept out of the process argument list.
const masterKeyEnv = "FLOW_MASTER_KEY"

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Command line parameter initialization.
	var (
		flagAPI      string
		flagAccount  string
		flagBalance  string
		flagDSN      string
		flagDir      string
		flagInterval time.Duration
		flagLevel    string
		flagMetrics  string
		flagNetwork  string
		flagTarget   float64
		flagTopUp    float64
		flagTransfer string
		flagWorkers  int
	)

	pflag.StringVarP(&flagAPI, "api", "a", "", "host of the Flow Access API, overriding the network default")
	pflag.StringVarP(&flagAccount, "account", "c", "mainnet-agfarms", "name of the funding service account")
	pflag.StringVarP(&flagBalance, "balance-script", "b", "cadence/scripts/getBalance.cdc", "path to the Cadence balance script")
	pflag.StringVarP(&flagDSN, "dsn", "q", "", "Postgres DSN of the wallet directory")
	pflag.StringVarP(&flagDir, "dir", "d", ".", "directory with registry documents, key files and Cadence sources")
	pflag.DurationVarP(&flagInterval, "interval", "i", 5*time.Minute, "interval between funding sweeps")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", ":9090", "address of the Prometheus metrics endpoint")
	pflag.StringVarP(&flagNetwork, "network", "n", "mainnet", "Flow network to execute against")
	pflag.Float64VarP(&flagTarget, "target", "g", 0.1, "balance below which a wallet gets funded, in whole tokens")
	pflag.Float64VarP(&flagTopUp, "topup", "u", 0.1, "amount transferred to an underfunded wallet, in whole tokens")
	pflag.StringVarP(&flagTransfer, "transfer-script", "f", "cadence/transactions/transferFlow.cdc", "path to the Cadence transfer transaction")
	pflag.IntVarP(&flagWorkers, "workers", "w", 4, "number of concurrent balance readers")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	if flagDSN == "" {
		log.Error().Msg("wallet directory DSN is required")
		return failure
	}

	// Initialize the Access API client.
	if flagAPI == "" {
		flagAPI = custody.Network(flagNetwork).AccessAPI()
	}
	client, err := access.NewClient(flagAPI, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Error().Str("api", flagAPI).Err(err).Msg("could not connect to Access API")
		return failure
	}
	defer client.Close()

	// Initialize the wallet directory, with at-rest decryption when a master
	// secret is configured.
	db, err := sql.Open("postgres", flagDSN)
	if err != nil {
		log.Error().Err(err).Msg("could not open wallet directory")
		return failure
	}
	defer db.Close()
	var decrypt records.Decryptor
	masterHex := os.Getenv(masterKeyEnv)
	if masterHex != "" {
		crypt, err := keycrypt.New(masterHex)
		if err != nil {
			log.Error().Err(err).Msg("could not initialize key decryption")
			return failure
		}
		decrypt = crypt
	}
	store := records.New(log, db, decrypt)

	// Initialize the custody engine.
	resolve, err := resolver.New(log, store,
		resolver.WithFlowDir(flagDir),
		resolver.WithServiceAccount(flagAccount),
	)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize resolver")
		return failure
	}
	submit := submitter.New(log, client)
	transact := transactor.New(log, client, resolve, submit)
	engine, err := adapter.New(log, client, resolve, transact, adapter.WithFlowDir(flagDir))
	if err != nil {
		log.Error().Err(err).Msg("could not initialize adapter")
		return failure
	}

	// Metrics initialization.
	var (
		walletsChecked = promauto.NewCounter(prometheus.CounterOpts{
			Name: "funding_wallets_checked_total",
			Help: "Number of wallet balances read during funding sweeps.",
		})
		walletsFunded = promauto.NewCounter(prometheus.CounterOpts{
			Name: "funding_wallets_funded_total",
			Help: "Number of top-up transfers that sealed successfully.",
		})
		sweepFailures = promauto.NewCounter(prometheus.CounterOpts{
			Name: "funding_sweep_failures_total",
			Help: "Number of balance reads or top-up transfers that failed.",
		})
	)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: flagMetrics, Handler: mux}
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweep := func() {
		wallets, err := store.Wallets(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not list wallets")
			sweepFailures.Inc()
			return
		}
		log.Info().Int("wallets", len(wallets)).Msg("starting funding sweep")
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(flagWorkers)
		for _, wallet := range wallets {
			wallet := wallet
			eg.Go(func() error {
				res := engine.ExecuteScript(egCtx, custody.ScriptCall{
					Path: flagBalance,
					Args: []interface{}{wallet.Address},
				})
				walletsChecked.Inc()
				if !res.Success {
					log.Warn().Str("address", wallet.Address).Str("error", res.ErrorMessage).Msg("could not read wallet balance")
					sweepFailures.Inc()
					return nil
				}
				balance, ok := res.Data.(float64)
				if !ok || balance >= flagTarget {
					return nil
				}

				// Top-up transfers all go out through the service account, so
				// the transactor serializes them on its proposer key.
				res = engine.SendTransaction(egCtx, custody.TransactionCall{
					Path: flagTransfer,
					Args: []interface{}{wallet.Address, flagTopUp},
				})
				if !res.Success {
					log.Warn().Str("address", wallet.Address).Str("transaction", res.TransactionID).Str("error", res.ErrorMessage).Msg("could not fund wallet")
					sweepFailures.Inc()
					return nil
				}
				walletsFunded.Inc()
				log.Info().Str("address", wallet.Address).Str("transaction", res.TransactionID).Float64("balance", balance).Msg("wallet funded")
				return nil
			})
		}
		_ = eg.Wait()
	}

	log.Info().Str("api", flagAPI).Dur("interval", flagInterval).Msg("funding daemon starting")

	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()
	sweep()
	for {
		select {
		case <-sig:
			log.Info().Msg("funding daemon stopping")
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
			return success
		case <-ticker.C:
			sweep()
		}
	}
}
