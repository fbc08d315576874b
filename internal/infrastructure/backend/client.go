package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"activityboard/internal/app/dto"
	"activityboard/internal/domain"
	"activityboard/internal/domain/activity"
	"activityboard/internal/infrastructure/metrics"
)

const (
	opList   = "list_activities"
	opSignup = "signup"
	opRemove = "remove_participant"
)

// Client calls the activities REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tracer  trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tracer:  otel.Tracer("activityboard/backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ activity.Client = (*Client)(nil)

func (c *Client) ListActivities(ctx context.Context) (activity.Catalog, error) {
	status, body, err := c.send(ctx, opList, http.MethodGet, "/activities", nil)
	if err != nil {
		return activity.Catalog{}, err
	}

	if status < 200 || status > 299 {
		var d dto.DetailResponse
		if err := json.Unmarshal(body, &d); err != nil {
			return activity.Catalog{}, domain.TransportFailure(opList, fmt.Errorf("decode error body: %w", err))
		}
		return activity.Catalog{}, domain.ApplicationFailure(status, d.Detail)
	}

	var cat dto.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return activity.Catalog{}, domain.TransportFailure(opList, fmt.Errorf("decode catalog: %w", err))
	}
	return cat.ToDomain(), nil
}

func (c *Client) Signup(ctx context.Context, activityName, email string) (string, error) {
	path := "/activities/" + url.PathEscape(activityName) + "/signup"
	return c.mutate(ctx, opSignup, http.MethodPost, path, email)
}

func (c *Client) RemoveParticipant(ctx context.Context, activityName, email string) (string, error) {
	path := "/activities/" + url.PathEscape(activityName) + "/participants"
	return c.mutate(ctx, opRemove, http.MethodDelete, path, email)
}

// mutate performs a signup or removal call: {message} on 2xx, {detail} otherwise.
func (c *Client) mutate(ctx context.Context, op, method, path, email string) (string, error) {
	status, body, err := c.send(ctx, op, method, path, url.Values{"email": {email}})
	if err != nil {
		return "", err
	}

	if status >= 200 && status <= 299 {
		var m dto.MessageResponse
		if err := json.Unmarshal(body, &m); err != nil {
			return "", domain.TransportFailure(op, fmt.Errorf("decode message: %w", err))
		}
		return m.Message, nil
	}

	var d dto.DetailResponse
	if err := json.Unmarshal(body, &d); err != nil {
		return "", domain.TransportFailure(op, fmt.Errorf("decode error body: %w", err))
	}
	return "", domain.ApplicationFailure(status, d.Detail)
}

func (c *Client) send(ctx context.Context, op, method, path string, query url.Values) (status int, body []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	started := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		switch {
		case domain.IsTransport(err):
			outcome = metrics.OutcomeTransportFailure
		case err != nil, status < 200 || status > 299:
			outcome = metrics.OutcomeApplicationFailure
		}
		metrics.ObserveBackendCall(op, outcome, time.Since(started))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, nil, domain.TransportFailure(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, domain.TransportFailure(op, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, domain.TransportFailure(op, fmt.Errorf("read body: %w", err))
	}
	return resp.StatusCode, body, nil
}
