package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	access "github.com/onflow/flow-go-sdk/access/grpc"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/service/adapter"
	"github.com/agfarms/flow-custodian/service/resolver"
	"github.com/agfarms/flow-custodian/service/submitter"
	"github.com/agfarms/flow-custodian/service/transactor"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Command line parameter initialization.
	var (
		flagAPI     string
		flagAccount string
		flagAddress string
		flagDir     string
		flagLevel   string
		flagNetwork string
	)

	pflag.StringVarP(&flagAPI, "api", "a", "", "host of the Flow Access API, overriding the network default")
	pflag.StringVarP(&flagAccount, "account", "c", "mainnet-agfarms", "name of the service account")
	pflag.StringVarP(&flagAddress, "address", "r", "", "address of the account to look up")
	pflag.StringVarP(&flagDir, "dir", "d", ".", "directory with registry documents and key files")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagNetwork, "network", "n", "mainnet", "Flow network to execute against")

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

	if flagAddress == "" {
		log.Error().Msg("address is required")
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

	// Initialize the custody engine.
	resolve, err := resolver.New(log, nil,
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

	// Look up the account and print the normalized result.
	res := engine.GetAccount(context.Background(), flagAddress)
	output, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("could not encode result")
		return failure
	}
	fmt.Println(string(output))

	if !res.Success {
		return failure
	}
	return success
}
