// Package filter extracts allow-listed filter parameters from a request.
//
// A Backend reads raw parameters from either the query string (NewQuery)
// or the decoded request body (NewBody) and keeps only the keys that are
// part of the allow-list. The allow-list is the explicit WithFields list
// when given, otherwise the field names of the model:
//
//	type Post struct {
//	    ID    string `json:"id"`
//	    Title string `json:"title"`
//	}
//
//	f := filter.NewQuery(Post{})
//	where, err := f.Filter(c) // ?title=go&size=10 -> {"title": "go"}
//
// The allow-list is computed once, when the backend is constructed.
package filter
