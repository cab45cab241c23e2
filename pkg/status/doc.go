// Package status defines the response code taxonomy.
//
// Every outcome of a request travels to the client as a numeric code plus a
// human readable message. Codes are stable across versions: clients branch on
// the number, never on the text.
//
//	status.QueryParamMissing.Render(map[string]string{"param": "size"})
//	// Query param `size` is required
//
// Templates use {{name}} placeholders. Rendering with a context that misses a
// placeholder, or carries a key the template does not use, is a programming
// error and panics.
package status
