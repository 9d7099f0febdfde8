// Package discovery finds eSCL scanners advertised over mDNS as
// _uscan._tcp (HTTP) and _uscans._tcp (HTTPS) services, and turns each
// advertisement into the base URL package client expects.
package discovery
