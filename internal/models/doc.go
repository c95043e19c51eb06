// Package models defines the wire types of the booking API and the entities persisted by the client.
//
// The package contains three categories of types:
//
// 1. Wire types: JSON shapes exchanged with the booking REST API
//   - [Envelope] : the response wrapper every endpoint returns
//   - [Accommodation] : a bookable property
//   - [WishlistItem] : a saved (user, accommodation) pair
//   - [Booking], [BookingRequest] : reservations
//   - [Review], [ReviewSummary] : guest reviews and their aggregate
//   - [User], [Credentials], [Registration] : accounts
//
// 2. Client state: values kept in client storage
//   - [UserPreferences] : onboarding answers fed to recommendations
//   - [PendingBooking] : a booking form saved before a login redirect
//
// 3. Persistent entities: database-backed models implementing [Model]
//   - [CachedProperty] : a property snapshot kept for offline listing and export
//
// Backend timestamps arrive as numeric arrays; [DateArray] decodes them at the API boundary.
package models
