// Package wishlist keeps an eventually consistent, in-memory copy of the logged-in user's
// saved properties.
//
// # States
//
// A [Store] moves Uninitialized → Loading → Ready, re-entering Loading on a forced or stale
// refresh, and lands in Error when a fetch fails. Without a session every refresh settles on an
// empty Ready state without touching the network.
//
// # Refresh
//
// [Store.Refresh] skips the network while the last successful fetch is younger than the
// staleness threshold (five minutes by default) unless forced. Overlapping refreshes share one
// request through a [singleflight.Group] owned by the store, so every caller observes the same
// result.
//
// # Mutations
//
// [Store.Add] is confirm-first: the server's copy of the new item is appended only after the API
// accepts it, then a background refresh reconciles. [Store.Remove] is optimistic: the item
// disappears before the request is sent and a failed delete is rolled back by refetching.
//
// Every local mutation bumps a version stamp. A fetch that started before a mutation is
// discarded when it completes, and accommodations with a delete in flight are filtered from
// any fetch result until the delete settles.
//
// # Lifecycle
//
// [Store.Close] detaches the store: results that arrive afterwards are dropped. [Store.Wait]
// joins background refreshes, and [Store.Reset] clears everything on logout.
package wishlist
