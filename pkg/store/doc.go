// Package store defines the repository abstraction the CRUD views persist
// records through, and ships four implementations:
//
//   - [Memory]: an in-process map, for tests and demos;
//   - [Postgres]: dynamic SQL over a pgx pool or transaction;
//   - [Mongo]: a mongo-driver collection;
//   - [Cached]: a read-through decorator over any repository backed by
//     [github.com/dmitrymomot/restbase/pkg/cache].
//
// Records cross the repository boundary as field mappings keyed by JSON
// name. A repository decodes rows into T and accepts writes as mappings,
// which is what the schema layer produces.
//
// Absent records are reported as [ErrNotFound] and unique constraint
// violations as [ErrConflict], whatever the backend.
package store
