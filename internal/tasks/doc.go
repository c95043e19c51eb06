// Package tasks holds the multi-step client workflows that sit above the REST client and the
// stores.
//
// # Bulk Fetch
//
// [Engine.FetchProperties] loads many properties through a worker pool throttled by a
// [rate.Limiter], reporting progress on a channel with non-blocking sends. Results keep the
// order of the requested ids. [Engine.Export] fetches and writes the result through the
// formatter package with a JSON manifest.
//
// # Property Caching
//
// The optional [PropertyCacher] persists every fetched property (repositories.PropertyCacheAdapter
// in the CLI). Cache failures are logged and never fail a fetch.
//
// # Booking
//
// [BookingFlow] prices a stay with a 12% service fee, books it for the logged-in user, and
// parks the request in session storage when nobody is logged in so it can be replayed with
// [BookingFlow.ResumePending] after login.
//
// # Recommendations
//
// [Recommender] picks personalized, preference-based or generic listings depending on what is
// known about the user and splits them into three display groups.
package tasks
