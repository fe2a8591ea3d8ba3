// Command doctreed serves a lazily loaded document tree over a REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/restapi"
	"github.com/sharedcode/doctree/tree"
)

// serverFlags are the command line settings that are not part of doctree.Options.
type serverFlags struct {
	configFile  string
	dataDir     string
	token       string
	showVersion bool
	debug       bool
}

// @title doctree REST API
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API token.
func main() {
	doctree.ConfigureLogging()

	opts, sf, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if sf.debug {
		doctree.SetLogLevel(log.LevelDebug)
	}
	if sf.showVersion {
		fmt.Printf("doctreed v%s\n", doctree.Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, opts, sf); err != nil {
		log.Error("doctreed stopped", "error", err)
		os.Exit(1)
	}
}

// parseFlags reads the config file named by -config (config.json when present otherwise),
// then applies the flags that were explicitly set on top of it.
func parseFlags(fs *flag.FlagSet, args []string) (doctree.Options, serverFlags, error) {
	var sf serverFlags
	cli := doctree.DefaultOptions()
	var sourceType, cacheType, redisAddress string

	fs.StringVar(&sf.configFile, "config", "", "Path to configuration file (optional)")
	fs.StringVar(&sf.dataDir, "data", ".", "Directory the file source reads from")
	fs.StringVar(&sf.token, "token", os.Getenv("DOCTREE_API_TOKEN"), "Bearer token required by the REST API, empty disables the check")
	fs.BoolVar(&sf.showVersion, "version", false, "Show version and exit")
	fs.BoolVar(&sf.debug, "debug", false, "Log at debug level, overrides DOCTREE_LOG_LEVEL")
	fs.StringVar(&cli.Listen, "listen", cli.Listen, "REST API listen address")
	fs.StringVar(&sourceType, "source", string(cli.SourceType), "Document source: file, http, s3 or cassandra")
	fs.StringVar(&cli.SourcePrefix, "prefix", cli.SourcePrefix, "Address prefix of every document")
	fs.StringVar(&cli.SourceSuffix, "suffix", cli.SourceSuffix, "Address suffix of every document")
	fs.StringVar(&cli.StartKey, "start", cli.StartKey, "Child of the root to navigate to on startup")
	fs.StringVar(&cacheType, "cache", string(cli.CacheType), "Document cache: none, inmemory or redis")
	fs.StringVar(&redisAddress, "redis", "localhost:6379", "Redis address, used with -cache redis")
	fs.StringVar(&cli.MergeExpression, "merge", "", "CEL expression over existing and incoming combining colliding content")
	if err := fs.Parse(args); err != nil {
		return doctree.Options{}, sf, err
	}

	opts := doctree.DefaultOptions()
	if sf.configFile == "" {
		if _, err := os.Stat("config.json"); err == nil {
			sf.configFile = "config.json"
		}
	}
	if sf.configFile != "" {
		var err error
		if opts, err = doctree.LoadOptions(sf.configFile); err != nil {
			return doctree.Options{}, sf, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			opts.Listen = cli.Listen
		case "source":
			opts.SourceType = doctree.SourceType(sourceType)
		case "prefix":
			opts.SourcePrefix = cli.SourcePrefix
		case "suffix":
			opts.SourceSuffix = cli.SourceSuffix
		case "start":
			opts.StartKey = cli.StartKey
		case "cache":
			opts.CacheType = doctree.CacheType(cacheType)
		case "redis":
			opts.RedisConfig = &doctree.RedisCacheConfig{Address: redisAddress}
		case "merge":
			opts.MergeExpression = cli.MergeExpression
		}
	})
	if opts.CacheType == doctree.Redis && opts.RedisConfig == nil {
		opts.RedisConfig = &doctree.RedisCacheConfig{Address: redisAddress}
	}
	return opts, sf, opts.Validate()
}

func run(ctx context.Context, opts doctree.Options, sf serverFlags) error {
	cache, closeCache, err := buildCache(opts)
	if err != nil {
		return err
	}
	defer closeCache()

	fetcher, closeSource, err := buildFetcher(opts, sf.dataDir, cache)
	if err != nil {
		return err
	}
	defer closeSource()

	merge, err := buildMergeFunc(opts.MergeExpression)
	if err != nil {
		return err
	}

	t := tree.New(fetcher, tree.Options{
		SourcePrefix: opts.SourcePrefix,
		SourceSuffix: opts.SourceSuffix,
		MergeFunc:    merge,
	})
	if opts.StartKey != "" {
		if _, err := t.Init(ctx, opts.StartKey); err != nil {
			return err
		}
	} else if err := t.Load(ctx, t.Root()); err != nil {
		log.Warn("loading the root failed", "error", err)
	}
	defer t.Wait()

	s := restapi.NewServer(t, nil)
	s.Token = sf.token
	router, err := restapi.NewRouter(s)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: opts.Listen, Handler: router}
	errs := make(chan error, 1)
	go func() {
		log.Info("doctreed listening", "address", opts.Listen, "source", opts.SourceType, "cache", opts.CacheType)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	log.Info("doctreed shutting down")
	return srv.Shutdown(shutdownCtx)
}
