// Package doctree defines the shared types used across the doctree codebase: the Document
// shape returned by a fetch source, the Fetcher and Cache contracts, error codes, UUID
// identities, retry helpers and logging configuration.
//
// The lazily-populated tree itself lives in the node (structure, merge and graft) and tree
// (lazy loading and navigation) packages. Concrete fetch sources live under source, and
// cache backends under cache (in-process) and redis.
package doctree

// Loading model
//
// Nodes are materialized from Documents fetched by address. A Fetcher is the only I/O
// boundary of the core; timeouts and retries are properties of the Fetcher chain
// (see source.WithRetry and source.Cached), never of the tree itself.
