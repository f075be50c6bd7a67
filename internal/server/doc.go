// Package server hosts the HTTP processes of numfront: the development proxy
// and the reference backend. It owns the listener lifecycle, graceful
// shutdown, request logging, security headers, CORS and Prometheus metrics;
// callers only register handlers.
package server
