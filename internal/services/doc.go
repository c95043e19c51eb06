// Package services implements a typed client for the booking REST API.
//
// # Client
//
// [Client] wraps two [http.Client] values sharing one base transport: a public client for
// anonymous endpoints (property listings, review summaries, new-user recommendations) and an
// authenticated client whose [oauth2.Transport] attaches "Authorization: Bearer <token>" from
// the configured [oauth2.TokenSource]. The session store is that source, so a missing session
// fails before any request leaves the process.
//
// Every request carries an X-Request-ID header generated with [shared.GenerateID].
//
// # Envelope
//
// The API wraps every response in [models.Envelope]. Endpoint methods unwrap the field they
// care about (data, user, accommodationList, ...) and return domain values.
//
// # Error Handling
//
// Failures map onto sentinel errors from the shared package:
//   - [shared.ErrNetwork] : transport failure or timeout
//   - [shared.ErrAuthRequired] : no session, or the API answered 401/403
//   - [shared.ErrNotFound] : the API answered 404
//   - [shared.ErrAPIRequest] : any other non-2xx status
//
// Status failures are returned as [*StatusError], which carries the envelope message.
// A 404 from the review summary endpoint is downgraded to an empty [models.ReviewSummary].
//
// # Raw Requests
//
// [Client.Get] and [Client.Post] return an [APIResponse] without interpreting it, for debugging
// the API from the CLI.
package services
