package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/cache"
	"github.com/sharedcode/doctree/tree"
)

func TestParseFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.json")
	os.WriteFile(cfg, []byte(`{"source_type": "http", "source_prefix": "http://docs/json/", "start_key": "esv"}`), 0o644)

	opts, sf, err := parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-config", cfg, "-start", "kjv", "-cache", "none", "-data", dir,
	})
	if err != nil {
		t.Fatalf("parseFlags failed, err: %v", err)
	}
	if opts.SourceType != doctree.HTTPSource || opts.SourcePrefix != "http://docs/json/" {
		t.Errorf("config file values lost: %+v", opts)
	}
	if opts.StartKey != "kjv" || opts.CacheType != doctree.NoCache {
		t.Errorf("flags should override the config file: %+v", opts)
	}
	if sf.dataDir != dir {
		t.Errorf("got data dir %s", sf.dataDir)
	}

	opts, _, err = parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-config", cfg, "-cache", "redis"})
	if err != nil {
		t.Fatalf("parseFlags failed, err: %v", err)
	}
	if opts.RedisConfig == nil || opts.RedisConfig.Address != "localhost:6379" {
		t.Errorf("redis cache should default its address, got %+v", opts.RedisConfig)
	}

	if _, _, err := parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-config", cfg, "-source", "ftp"}); err == nil {
		t.Errorf("expected validation error")
	}
}

func TestBuildFetcher_File(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "json"), 0o755)
	os.WriteFile(filepath.Join(dir, "json", "home.json"), []byte(`{"esv": {"title": "ESV"}}`), 0o644)
	os.WriteFile(filepath.Join(dir, "json", "esv.json"), []byte(`{"genesis": {"content": "In the beginning"}}`), 0o644)

	opts := doctree.DefaultOptions()
	c, closeCache, err := buildCache(opts)
	if err != nil {
		t.Fatalf("buildCache failed, err: %v", err)
	}
	defer closeCache()
	if _, ok := c.(*cache.DocumentCache); !ok {
		t.Fatalf("got cache %T, want *cache.DocumentCache", c)
	}
	f, closeSource, err := buildFetcher(opts, dir, c)
	if err != nil {
		t.Fatalf("buildFetcher failed, err: %v", err)
	}
	defer closeSource()

	merge, err := buildMergeFunc(`existing + " " + incoming`)
	if err != nil {
		t.Fatalf("buildMergeFunc failed, err: %v", err)
	}
	tr := tree.New(f, tree.Options{SourcePrefix: opts.SourcePrefix, SourceSuffix: opts.SourceSuffix, MergeFunc: merge})
	if _, err := tr.Init(context.Background(), "esv"); err != nil {
		t.Fatalf("Init failed, err: %v", err)
	}
	genesis, err := tr.Lookup("esv", "genesis")
	if err != nil {
		t.Fatalf("Lookup failed, err: %v", err)
	}
	if genesis.Content() != "In the beginning" {
		t.Errorf("got content %v", genesis.Content())
	}
	if found, _ := c.GetStruct(context.Background(), "doctree:doc:json/esv.json", &doctree.Document{}); !found {
		t.Errorf("fetched document should be cached")
	}
	if _, err := buildMergeFunc("existing +"); err == nil {
		t.Errorf("expected compile error")
	}
}
