package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	access "github.com/onflow/flow-go-sdk/access/grpc"

	"github.com/agfarms/flow-custodian/models/convert"
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
		flagAPI         string
		flagAccount     string
		flagAuthorizers []string
		flagDir         string
		flagLevel       string
		flagNetwork     string
		flagParams      string
		flagPayer       string
		flagProposer    string
		flagScript      string
		flagTimeout     time.Duration
	)

	pflag.StringVarP(&flagAPI, "api", "a", "", "host of the Flow Access API, overriding the network default")
	pflag.StringVarP(&flagAccount, "account", "c", "mainnet-agfarms", "name of the service account")
	pflag.StringSliceVarP(&flagAuthorizers, "authorizers", "z", nil, "authorizer role values, defaulting to the proposer")
	pflag.StringVarP(&flagDir, "dir", "d", ".", "directory with registry documents, key files and Cadence sources")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagNetwork, "network", "n", "mainnet", "Flow network to execute against")
	pflag.StringVarP(&flagParams, "params", "p", "", "comma-separated list of transaction parameters")
	pflag.StringVarP(&flagPayer, "payer", "y", "", "payer role value, defaulting to the service account")
	pflag.StringVarP(&flagProposer, "proposer", "o", "", "proposer role value, defaulting to the service account")
	pflag.StringVarP(&flagScript, "script", "s", "transaction.cdc", "path to file with Cadence transaction")
	pflag.DurationVarP(&flagTimeout, "timeout", "t", custody.DefaultFinalityTimeout, "maximum wait for the transaction to seal")

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

	// Parse the transaction parameters.
	var args []interface{}
	if flagParams != "" {
		for _, param := range strings.Split(flagParams, ",") {
			arg, err := convert.ParseArgument(param)
			if err != nil {
				log.Error().Str("param", param).Err(err).Msg("invalid transaction parameter")
				return failure
			}
			args = append(args, arg)
		}
	}

	// Initialize the custody engine.
	resolve, err := resolver.New(log, nil,
		resolver.WithFlowDir(flagDir),
		resolver.WithServiceAccount(flagAccount),
	)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize resolver")
		return failure
	}
	submit := submitter.New(log, client, submitter.WithFinalityTimeout(flagTimeout))
	transact := transactor.New(log, client, resolve, submit)
	engine, err := adapter.New(log, client, resolve, transact, adapter.WithFlowDir(flagDir))
	if err != nil {
		log.Error().Err(err).Msg("could not initialize adapter")
		return failure
	}

	// Submit the transaction and print the normalized result.
	res := engine.SendTransaction(context.Background(), custody.TransactionCall{
		Path: flagScript,
		Args: args,
		Roles: custody.RoleSet{
			Proposer:    flagProposer,
			Payer:       flagPayer,
			Authorizers: flagAuthorizers,
		},
	})
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
