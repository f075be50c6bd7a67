// Package proxy forwards the logical number endpoints to the backend origin,
// the way a frontend dev server proxies API calls during development.
package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/agbru/numfront/internal/api"
	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/logging"
	"github.com/agbru/numfront/internal/server"
)

// Paths lists the logical paths that are forwarded. Everything else 404s.
var Paths = []string{api.Reverser.Path, api.Summation.Path}

// Proxy forwards requests to a single backend origin with Host rewritten to
// the backend's.
type Proxy struct {
	target *url.URL
	rp     *httputil.ReverseProxy
	logger logging.Logger
}

// New returns a proxy for target, which must be an absolute http(s) URL.
func New(target string, logger logging.Logger) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.NewConfigError("invalid proxy target %q", target)
	}
	p := &Proxy{target: u, logger: logger}
	p.rp = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(u)
			r.SetXForwarded()
		},
		ModifyResponse: dropManagedHeaders,
		ErrorHandler:   p.handleError,
	}
	return p, nil
}

// Target returns the backend origin.
func (p *Proxy) Target() *url.URL { return p.target }

// ServeHTTP forwards the request unchanged apart from the origin.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.logger.Debug("forward",
		logging.String("path", r.URL.Path),
		logging.String("target", p.target.Host))
	p.rp.ServeHTTP(w, r)
}

// Register mounts the proxy on each forwarded path of s.
func (p *Proxy) Register(s *server.Server) {
	for _, path := range Paths {
		s.Handle(path, p)
	}
}

// dropManagedHeaders removes the backend's security, CORS and request ID
// headers. The proxy's own middleware has already set them, and a doubled
// Access-Control-Allow-Origin fails every browser CORS check.
func dropManagedHeaders(res *http.Response) error {
	for _, h := range server.ManagedHeaders {
		res.Header.Del(h)
	}
	return nil
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("backend unreachable", err,
		logging.String("path", r.URL.Path),
		logging.String("target", p.target.Host))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "backend unreachable"})
}
