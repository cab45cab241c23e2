// Package exception provides the error type raised by any layer of a request
// and consumed once by the exception middleware.
//
// An [Error] binds a [status.Code] and the context needed to render its
// message:
//
//	if c.Query("size") == "" {
//	    return exception.QueryParameterMissing("size")
//	}
//
// The middleware turns it into an envelope carrying the rendered message and
// the numeric code. Construct with the typed helpers; building an Error whose
// context misses a placeholder panics when the message is rendered.
package exception
