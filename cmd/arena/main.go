// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/arena/api"
	"github.com/vechain/arena/api/admin"
	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest"
	"github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/eventdb"
	"github.com/vechain/arena/health"
	"github.com/vechain/arena/ledger"
	"github.com/vechain/arena/log"
	"github.com/vechain/arena/lvldb"
	"github.com/vechain/arena/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Arena",
		Usage:     "Competitive contexts with escrowed entry fees and prizes",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			cacheFlag,
			ledgerURLFlag,
			escrowFlag,
			validatorFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			skipNTPFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run with an in-process ledger and funded dev accounts",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					cacheFlag,
					persistFlag,
					validatorFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiEventsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					verbosityFlag,
					jsonLogsFlag,
					pprofFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
				},
				Action: soloAction,
			},
			{
				Name:   "params",
				Usage:  "print the effective engine parameters as YAML",
				Flags:  []cli.Flag{configFlag},
				Action: paramsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	params := mustLoadParams(ctx)

	ledgerURL := ctx.String(ledgerURLFlag.Name)
	if ledgerURL == "" {
		fatal(fmt.Sprintf("no ledger, use --%s to specify one or run solo", ledgerURLFlag.Name))
	}
	escrow, err := arena.ParseAddress(ctx.String(escrowFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("parse --%s: %v", escrowFlag.Name, err))
	}
	validators, err := parseValidators(ctx.StringSlice(validatorFlag.Name))
	if err != nil {
		fatal(err)
	}
	if !ctx.Bool(skipNTPFlag.Name) {
		go checkClockOffset()
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := makeDataDir(ctx)
	mainDB := openMainDB(ctx, dataDir)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(dataDir)
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	feed := events.NewFeed()
	tracker := health.Track(events.Multi(eventDB, feed))
	engine, err := contest.New(engineBucket.NewStore(mainDB), ledger.NewClient(ledgerURL), contest.Options{
		Params:     &params,
		Escrow:     escrow,
		Validators: validators,
		Notifier:   tracker,
	})
	if err != nil {
		return err
	}

	return run(exitSignal, ctx, logLevel, engine, eventDB, feed, tracker, func(urls serviceURLs) {
		fmt.Printf(`Starting %v
    Data dir    [ %v ]
    Ledger      [ %v ]
    Escrow      [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
    Admin       [ %v ]
`,
			"Arena "+fullVersion(), dataDir, ledgerURL, escrow, urls.api, urls.metrics, urls.admin)
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	params := mustLoadParams(ctx)

	validators, err := parseValidators(ctx.StringSlice(validatorFlag.Name))
	if err != nil {
		fatal(err)
	}
	devValidators(validators)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir string
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir = makeDataDir(ctx)
		mainDB = openMainDB(ctx, dataDir)
		eventDB = openEventDB(dataDir)
	} else {
		dataDir = "Memory"
		mainDB = openMemMainDB()
		eventDB = openMemEventDB()
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	local, err := ledger.NewLocal(ledgerBucket.NewStore(mainDB), devEscrow)
	if err != nil {
		return err
	}
	feed := events.NewFeed()
	tracker := health.Track(events.Multi(eventDB, feed))
	engine, err := contest.New(engineBucket.NewStore(mainDB), local, contest.Options{
		Params:     &params,
		Escrow:     devEscrow,
		Validators: validators,
		Notifier:   tracker,
	})
	if err != nil {
		return err
	}

	if err := seedLedger(local); err != nil {
		return err
	}

	return run(exitSignal, ctx, logLevel, engine, eventDB, feed, tracker, func(urls serviceURLs) {
		printSoloStartupMessage(dataDir, urls)
	})
}

func paramsAction(ctx *cli.Context) error {
	params, err := loadParams(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(params)
}

type serviceURLs struct {
	api, metrics, admin string
}

// run serves the API, and metrics and admin when enabled, until exit is done.
func run(
	exit context.Context,
	ctx *cli.Context,
	logLevel *slog.LevelVar,
	engine *contest.Engine,
	eventDB *eventdb.EventDB,
	feed *events.Feed,
	tracker *health.Health,
	printStartup func(urls serviceURLs),
) error {
	enableReqLogger := &atomic.Bool{}
	enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeAPI := api.New(engine, eventDB, feed, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      enableReqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})

	g, gctx := errgroup.WithContext(exit)
	urls := serviceURLs{metrics: "disabled", admin: "disabled"}

	apiListener := listen(ctx.String(apiAddrFlag.Name), "API")
	serveHTTP(gctx, g, "API", apiListener, handler)
	g.Go(func() error {
		<-gctx.Done()
		closeAPI()
		return nil
	})
	urls.api = "http://" + apiListener.Addr().String() + "/"

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsListener := listen(ctx.String(metricsAddrFlag.Name), "metrics")
		serveHTTP(gctx, g, "metrics", metricsListener, metricsHandler())
		urls.metrics = "http://" + metricsListener.Addr().String() + "/metrics"
	}

	if ctx.Bool(enableAdminFlag.Name) {
		adminListener := listen(ctx.String(adminAddrFlag.Name), "admin")
		serveHTTP(gctx, g, "admin", adminListener, admin.New(logLevel, enableReqLogger, tracker, engine))
		urls.admin = "http://" + adminListener.Addr().String() + "/admin"
	}

	printStartup(urls)
	return g.Wait()
}
