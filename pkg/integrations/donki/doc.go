// Package donki provides a client for the Space Weather Database Of
// Notifications, Knowledge, Information (DONKI).
//
// # Events
//
// DONKI serves one feed per event kind (CME, FLR, GST, ...) and every feed
// has its own field names. [Client.Events] normalizes them into [Event]
// values with a common ID, time, link and instrument list, ordered by time.
// The original document is kept in Event.Raw.
//
// # Windows
//
// Both events and notifications are queried over a date window. When no
// start date is given the window covers the 30 days before the end date,
// and the end date defaults to today.
//
// Responses are cached for 30 minutes.
package donki
