// Package response builds the uniform JSON envelope returned by every endpoint.
//
// Every response body has the shape
//
//	{"data": <any>, "msg": <string|null>, "code": <int>}
//
// where code 0 means success. Paginated results put {"list": [...], "count": N}
// into data. Field names are configurable through [FieldNames] so a project
// can rename them without touching handlers.
//
// [Serialize] converts handler results (records, collections, raw JSON bytes,
// nested slices) into plain JSON-friendly values.
package response
