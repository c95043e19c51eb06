// Package repositories implements SQLite persistence for client-side state.
//
// Key Implementations:
//   - [KVRepository] : scoped key/value rows backing durable ("local") and per-login ("session") storage
//   - [PropertyRepository] : cached property snapshots with soft delete support
//   - [PropertyCacheAdapter] : write-through cache used by bulk property fetches
//
// Cached properties are soft deleted via deleted_at timestamps and excluded from queries by default.
package repositories
