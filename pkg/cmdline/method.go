package cmdline

import "strings"

// RequestMethod is an HTTP-style verb that may prefix a command line.
type RequestMethod string

const (
	GET     RequestMethod = "GET"
	POST    RequestMethod = "POST"
	PUT     RequestMethod = "PUT"
	PATCH   RequestMethod = "PATCH"
	DELETE  RequestMethod = "DELETE"
	HEAD    RequestMethod = "HEAD"
	OPTIONS RequestMethod = "OPTIONS"
	TRACE   RequestMethod = "TRACE"
	CONNECT RequestMethod = "CONNECT"
)

var requestMethods = []RequestMethod{GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS, TRACE, CONNECT}

// ResolveRequestMethod matches s against the known methods, ignoring case.
func ResolveRequestMethod(s string) (RequestMethod, bool) {
	for _, m := range requestMethods {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return "", false
}
