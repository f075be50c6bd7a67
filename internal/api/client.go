package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/logging"
)

// RequestIDHeader carries the per-request identifier through the proxy.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is kept in a StatusError.
const maxErrorBody = 256

// maxResponseBody bounds how much of a successful response is decoded.
const maxResponseBody = 1 << 20

// Reply is a successful endpoint answer.
type Reply struct {
	// Value is the returned field, verbatim.
	Value string
	// RequestID is the X-Request-ID sent with the request.
	RequestID string
	// Latency is the time from send to decoded response.
	Latency time.Duration
}

// Service submits one widget's input to its endpoint.
type Service interface {
	Endpoint() Endpoint
	Submit(ctx context.Context, input string) (Reply, error)
}

// Client posts JSON to the logical endpoints under one origin.
type Client struct {
	origin     *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     logging.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client resolving logical paths against origin.
func NewClient(origin string, opts ...Option) (*Client, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.NewConfigError("invalid origin %q", origin)
	}
	c := &Client{
		origin:     u,
		httpClient: http.DefaultClient,
		logger:     logging.NewLogger(io.Discard, "api"),
		tracer:     otel.Tracer("github.com/agbru/numfront/internal/api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Origin returns the origin the client resolves against.
func (c *Client) Origin() string { return c.origin.String() }

// Reverse posts input to /reverser and returns the reversed value.
func (c *Client) Reverse(ctx context.Context, input string) (Reply, error) {
	var resp ReverseResponse
	reply, err := c.post(ctx, Reverser, ReverseRequest{Num: input}, &resp)
	if err != nil {
		return Reply{}, err
	}
	if resp.Num == nil {
		return Reply{}, apperrors.MalformedResponseError{Endpoint: Reverser.Path, Reason: `missing field "num"`}
	}
	reply.Value = resp.Num.String()
	return reply, nil
}

// Sum posts input to /summation and returns the total.
func (c *Client) Sum(ctx context.Context, input string) (Reply, error) {
	var resp SumResponse
	reply, err := c.post(ctx, Summation, SumRequest{Num: input}, &resp)
	if err != nil {
		return Reply{}, err
	}
	if resp.Sum == nil {
		return Reply{}, apperrors.MalformedResponseError{Endpoint: Summation.Path, Reason: `missing field "sum"`}
	}
	reply.Value = resp.Sum.String()
	return reply, nil
}

// Reverser returns the Service bound to /reverser.
func (c *Client) Reverser() Service { return endpointService{ep: Reverser, submit: c.Reverse} }

// Summation returns the Service bound to /summation.
func (c *Client) Summation() Service { return endpointService{ep: Summation, submit: c.Sum} }

// Service returns the Service for the named endpoint.
func (c *Client) Service(name string) (Service, error) {
	switch name {
	case Reverser.Name:
		return c.Reverser(), nil
	case Summation.Name:
		return c.Summation(), nil
	}
	return nil, apperrors.NewConfigError("unknown endpoint %q", name)
}

type endpointService struct {
	ep     Endpoint
	submit func(context.Context, string) (Reply, error)
}

func (s endpointService) Endpoint() Endpoint { return s.ep }

func (s endpointService) Submit(ctx context.Context, input string) (Reply, error) {
	return s.submit(ctx, input)
}

// post sends body to ep and decodes a 2xx response into out.
func (c *Client) post(ctx context.Context, ep Endpoint, body, out any) (Reply, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "POST "+ep.Path, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("numfront.endpoint", ep.Name),
			attribute.String("numfront.request_id", requestID),
		))
	defer span.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return Reply{}, apperrors.WrapError(err, "encode %s request", ep.Name)
	}

	target := c.origin.ResolveReference(&url.URL{Path: ep.Path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return Reply{}, apperrors.WrapError(err, "build %s request", ep.Name)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	c.logger.Debug("request sent",
		logging.String("endpoint", ep.Path),
		logging.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = apperrors.NetworkError{Endpoint: ep.Path, Cause: err}
		c.fail(span, "request failed", err, ep, requestID)
		return Reply{}, err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err = apperrors.StatusError{
			Endpoint:   ep.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
		c.fail(span, "backend error", err, ep, requestID)
		return Reply{}, err
	}

	if err := decodeBody(resp.Body, out); err != nil {
		// A deadline hit while reading the body is still a transport failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = apperrors.NetworkError{Endpoint: ep.Path, Cause: ctxErr}
		} else {
			err = apperrors.MalformedResponseError{Endpoint: ep.Path, Reason: err.Error()}
		}
		c.fail(span, "undecodable response", err, ep, requestID)
		return Reply{}, err
	}

	latency := time.Since(start)
	c.logger.Debug("response received",
		logging.String("endpoint", ep.Path),
		logging.String("request_id", requestID),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency))
	span.SetStatus(codes.Ok, "")
	return Reply{RequestID: requestID, Latency: latency}, nil
}

func (c *Client) fail(span trace.Span, msg string, err error, ep Endpoint, requestID string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error(msg, err,
		logging.String("endpoint", ep.Path),
		logging.String("request_id", requestID))
}

// decodeBody decodes exactly one JSON object from r into out.
func decodeBody(r io.Reader, out any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxResponseBody))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}
