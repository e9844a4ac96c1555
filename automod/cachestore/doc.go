// Automod component for holding short-lived per-key state with a fixed TTL and purging.
//
// The rules engine uses this to keep the most recent message of each author, which is the baseline for repost detection. The in-process implementation is an expiring LRU; nothing is persisted.
package cachestore
