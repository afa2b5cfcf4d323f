// Package neo provides a client for the Near Earth Object Web Service.
//
// [Client.Feed] lists the objects making a close approach in a window of up
// to seven days, flattened into one list ordered by approach time.
// [Client.Lookup] fetches a single object by its JPL small-body ID and
// [Client.Browse] pages through the whole catalog.
package neo
