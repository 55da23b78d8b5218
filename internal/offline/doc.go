// Package offline implements the application-shell cache and the HTTP
// gateway serving from it. A fixed manifest of shell assets is fetched
// from the origin and installed atomically into a versioned bbolt bucket;
// activation evicts every bucket from other versions. The gateway serves
// GET requests cache first, so once installed the shell keeps working
// with the origin unreachable.
package offline
