// Package directory resolves opaque user identifiers into user records
// sourced from the external identity directory.
//
// # Overview
//
// The directory service returns an unordered set of records for a batch
// of ids or emails. Resolver restores caller order on top of that: its
// output always has the same length as the input, with each position
// holding the record for that position's identifier or nil when the
// directory has no match. Downstream consumers zip the output
// positionally against the input list, so order preservation is
// load-bearing.
//
// Client implements Service against a REST directory API with a small
// LRU cache so repeated lookups of the same users skip the network.
package directory
