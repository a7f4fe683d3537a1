// Package cache stores generated candidate batches and coalesces concurrent
// generation for the same key.
//
// Cache.GetOrGenerate is the entry point: a fresh stored entry is returned
// as is, otherwise one generation runs per key no matter how many callers
// ask for it at once. Successful batches are written to a Store with a TTL;
// errors are never stored. Two Store implementations are provided: a sharded
// in-process MemoryStore and a RedisStore for deployments running several
// replicas.
package cache
