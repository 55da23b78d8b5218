// Package sqlite implements the store interfaces on a local sqlite
// database file, giving the application durable offline persistence with
// no external services. Schema versioning and collection provisioning run
// through embedded goose migrations at startup.
package sqlite
