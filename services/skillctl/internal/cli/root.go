// Package cli implements skillctl, the operator tool for inspecting what the
// skill would say and for poking the fetcher.
package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/kv"
	"github.com/example/morning-report/internal/platform/logging"
	"github.com/example/morning-report/internal/platform/natsconn"
	"github.com/example/morning-report/internal/records"
	"github.com/example/morning-report/internal/refresh"
)

// Deps are the side-effecting constructors the commands use. Tests replace
// them with in-memory fakes.
type Deps struct {
	OpenStore func(ctx context.Context, opts kv.Options, log *zap.Logger) (kv.Store, error)
	DialNATS  func(url string) (refresh.Publisher, func(), error)
}

func DefaultDeps() Deps {
	return Deps{OpenStore: kv.NewStore, DialNATS: dialJetStream}
}

type app struct {
	v    *viper.Viper
	deps Deps
	log  *zap.Logger
}

// NewRootCmd builds the command tree. Every persistent flag can also be set
// through the matching environment variable (--redis-url is REDIS_URL).
func NewRootCmd(deps Deps) *cobra.Command {
	a := &app{v: viper.New(), deps: deps, log: zap.NewNop()}
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "skillctl",
		Short: "Operator tool for the morning report skill",
		Long: `skillctl reads what the fetcher stored and renders it the way the skill would.

Example usage:
  skillctl render --format ssml       # SSML the skill would speak
  skillctl key amzn1.ask.account.X    # storage key for a user's position
  skillctl positions get amzn1.ask.account.X
  skillctl refresh --reason manual    # ask the fetcher to refresh now`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(a.v.GetString("log-level"), "skillctl")
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("redis-url", "", "Redis store URL (env REDIS_URL)")
	pf.String("database-url", "", "Postgres store URL (env DATABASE_URL)")
	pf.String("mongo-url", "", "MongoDB store URL (env MONGO_URL)")
	pf.String("mongo-db", "morning_report", "MongoDB database (env MONGO_DB)")
	pf.String("log-level", "warn", "log level (env LOG_LEVEL)")
	_ = a.v.BindPFlags(pf)

	root.AddCommand(
		a.renderCmd(),
		a.podcastsCmd(),
		a.keyCmd(),
		a.positionsCmd(),
		a.tokenCmd(),
		a.refreshCmd(),
	)
	return root
}

// Execute runs skillctl with the real dependencies.
func Execute(ctx context.Context) error {
	return NewRootCmd(DefaultDeps()).ExecuteContext(ctx)
}

// repository opens the configured store. Unlike the services, the CLI has no
// use for an empty in-memory store, so a backend is required.
func (a *app) repository(ctx context.Context) (*records.Repository, func(), error) {
	opts := kv.Options{
		RedisURL:    a.v.GetString("redis-url"),
		DatabaseURL: a.v.GetString("database-url"),
		MongoURL:    a.v.GetString("mongo-url"),
		MongoDB:     a.v.GetString("mongo-db"),
		Production:  true,
	}
	if opts.RedisURL == "" && opts.DatabaseURL == "" && opts.MongoURL == "" {
		return nil, nil, errors.New("one of --redis-url, --database-url or --mongo-url is required")
	}
	store, err := a.deps.OpenStore(ctx, opts, a.log)
	if err != nil {
		return nil, nil, err
	}
	return records.NewRepository(store), func() { _ = store.Close() }, nil
}

func dialJetStream(url string) (refresh.Publisher, func(), error) {
	nc, err := natsconn.Connect(natsconn.Options{URL: url, Name: "skillctl"})
	if err != nil {
		return nil, nil, err
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return js, func() { _ = nc.Drain() }, nil
}

var _ refresh.Publisher = (nats.JetStreamContext)(nil)
