/*
Package transport provides the HTTP transport used by the eSCL client.

Client performs one request and reads the whole response. Every failure
is returned as an *Error, whose Kind separates connectivity problems,
certificate problems and HTTP error statuses. Classify is the single
place mapping errors from net/http into those kinds.

Timeouts are transport configuration. NewHTTPClient builds a Doer with
the request, connect and read timeouts of a Config; a timeout surfaces
as a KindNetwork error.
*/
package transport
