package main

import (
	"fmt"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/cache"
	"github.com/sharedcode/doctree/cel"
	"github.com/sharedcode/doctree/node"
	"github.com/sharedcode/doctree/redis"
	"github.com/sharedcode/doctree/source"
	"github.com/sharedcode/doctree/source/cassandra"
	"github.com/sharedcode/doctree/source/s3"
)

func noop() {}

// buildCache returns the configured document cache, nil for none, and its closer.
func buildCache(opts doctree.Options) (doctree.Cache, func(), error) {
	switch opts.CacheType {
	case "", doctree.NoCache:
		return nil, noop, nil
	case doctree.InMemory:
		return cache.NewDocumentCache(opts.CacheCapacity), noop, nil
	case doctree.Redis:
		ro, err := redis.OptionsFromConfig(*opts.RedisConfig)
		if err != nil {
			return nil, noop, err
		}
		redis.OpenConnection(ro)
		return redis.NewClient(), func() { redis.CloseConnection() }, nil
	}
	return nil, noop, fmt.Errorf("unsupported cache_type %q", opts.CacheType)
}

// buildFetcher chains source, retry and cache: cache hits skip the retrying source.
func buildFetcher(opts doctree.Options, dataDir string, c doctree.Cache) (doctree.Fetcher, func(), error) {
	var f doctree.Fetcher
	closer := noop
	switch opts.SourceType {
	case doctree.FileSource:
		f = source.NewFile(dataDir)
	case doctree.HTTPSource:
		// The prefix carries the base URL.
		f = source.NewHTTP("", -1)
	case doctree.S3Source:
		s, err := s3.NewSource(s3.Connect(*opts.S3Config), opts.S3Config.Bucket)
		if err != nil {
			return nil, noop, err
		}
		f = s
	case doctree.CassandraSource:
		conn, err := cassandra.OpenConnection(cassandra.ConfigFromOptions(*opts.CassandraConfig))
		if err != nil {
			return nil, noop, err
		}
		f = cassandra.NewSource(conn)
		closer = conn.Close
	default:
		return nil, noop, fmt.Errorf("unsupported source_type %q", opts.SourceType)
	}
	f = source.WithRetry(f, opts.MaxRetries, opts.RetryBase)
	if c != nil {
		f = source.Cached(f, c, opts.CacheExpiry)
	}
	return f, closer, nil
}

// buildMergeFunc compiles expression, nil (the default merge) when it is empty.
func buildMergeFunc(expression string) (node.MergeFunc, error) {
	if expression == "" {
		return nil, nil
	}
	m, err := cel.NewMerger(expression)
	if err != nil {
		return nil, err
	}
	return m.MergeFunc(), nil
}
