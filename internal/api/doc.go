// Package api is the typed HTTP client for the two number endpoints.
//
// Widgets address logical paths ("/reverser", "/summation") resolved against a
// configured origin; the client never knows which backend host ultimately serves
// them. Every response is validated at this boundary and failures are reported
// with the request error taxonomy from package apperrors.
package api
