// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/eventdb"
	"github.com/vechain/arena/kv"
	"github.com/vechain/arena/log"
	"github.com/vechain/arena/lvldb"
	"github.com/vechain/arena/metrics"
	"github.com/vechain/arena/validator"
)

// clock drift above this skews phase boundaries noticeably
const maxClockOffset = 2 * time.Second

// the engine and the solo ledger share the main db
var (
	engineBucket = kv.Bucket("e")
	ledgerBucket = kv.Bucket("l")
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	levelVar := new(slog.LevelVar)
	levelVar.Set(lvl)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, levelVar)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, levelVar, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return levelVar
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".arena")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

// loadParams reads the engine parameters from path over the defaults. An
// empty path yields the defaults.
func loadParams(path string) (arena.Params, error) {
	params := arena.DefaultParams()
	if path == "" {
		return params, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return arena.Params{}, errors.Wrap(err, "open config")
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil && err != io.EOF {
		return arena.Params{}, errors.Wrap(err, "decode config")
	}
	if err := params.Validate(); err != nil {
		return arena.Params{}, errors.Wrap(err, "invalid config")
	}
	return params, nil
}

func mustLoadParams(ctx *cli.Context) arena.Params {
	params, err := loadParams(ctx.String(configFlag.Name))
	if err != nil {
		fatal(err)
	}
	return params
}

// parseValidators builds the validator registry from address=url pairs.
func parseValidators(specs []string) (*validator.Registry, error) {
	reg := validator.NewRegistry()
	for _, s := range specs {
		addrStr, url, ok := strings.Cut(s, "=")
		if !ok || url == "" {
			return nil, fmt.Errorf("validator %q: expected address=url", s)
		}
		addr, err := arena.ParseAddress(strings.TrimSpace(addrStr))
		if err != nil {
			return nil, errors.WithMessagef(err, "validator %q", s)
		}
		reg.Register(addr, validator.NewClient(strings.TrimSpace(url)))
	}
	return reg, nil
}

func openMainDB(ctx *cli.Context, dir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	log.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))

	log.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	log.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", path, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openEventDB(dir string) *eventdb.EventDB {
	path := filepath.Join(dir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", path, err))
	}
	return db
}

func openMemEventDB() *eventdb.EventDB {
	db, err := eventdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open event database: %v", err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		log.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func listen(addr, name string) net.Listener {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen %s addr [%v]: %v", name, addr, err))
	}
	return listener
}

// serveHTTP runs handler on listener until ctx is done.
func serveHTTP(ctx context.Context, g *errgroup.Group, name string, listener net.Listener, handler http.Handler) {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "serve %s", name)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info(fmt.Sprintf("stopping %s server...", name))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}
