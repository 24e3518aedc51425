// Package stash provides the GraphQL client for the Stash entity store.
//
// The client is the only component that reads or mutates remote state. Link
// writes are additive: the current linked IDs are fetched and merged before
// the update mutation is sent, so repeating a link is a no-op on the server
// side. All operations take a context and block until the server responds.
package stash
