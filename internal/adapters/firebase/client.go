// Package firebase writes records to a Firebase Realtime Database over its
// REST API. Keys are push IDs minted locally, so a write is a single PUT to
// a location nobody else can be writing to.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/errs"
	"github.com/csg33k/leadform/internal/ports"
)

var scopes = []string{
	"https://www.googleapis.com/auth/firebase.database",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Config holds the project's connection parameters. The client reads
// DatabaseURL, CredentialsFile and AuthToken; the rest describe the project
// for diagnostics.
type Config struct {
	APIKey      string
	AuthDomain  string
	DatabaseURL string
	ProjectID   string
	// CredentialsFile is a service account JSON key. When set, requests
	// carry an OAuth2 bearer token.
	CredentialsFile string
	// AuthToken is a database secret or ID token sent as ?auth=.
	AuthToken string
}

// Error is a failure reported by the database, or a transport failure
// reaching it. Its message is the database's own text; transport messages
// never carry the request URL.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

var (
	_ ports.RecordStore = (*Client)(nil)
	_ ports.RecordStore = (*Lazy)(nil)
)

type Client struct {
	base      *url.URL
	http      *http.Client
	authToken string
	ids       *PushIDs
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithPushIDs replaces the key generator.
func WithPushIDs(p *PushIDs) Option {
	return func(c *Client) { c.ids = p }
}

// New connects a client to cfg.DatabaseURL.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("firebase: database url missing: %w", errs.ErrStoreUnconfigured)
	}
	base, err := url.Parse(strings.TrimRight(cfg.DatabaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("firebase: parse database url: %w", err)
	}
	if base.Scheme != "https" && base.Scheme != "http" {
		return nil, fmt.Errorf("firebase: database url %q must be http(s)", cfg.DatabaseURL)
	}

	c := &Client{
		base:      base,
		http:      http.DefaultClient,
		authToken: cfg.AuthToken,
		ids:       NewPushIDs(nil),
	}
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase: read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("firebase: parse credentials: %w", err)
		}
		c.http = oauth2.NewClient(ctx, creds.TokenSource)
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// NewKey mints a push ID. No request is made.
func (c *Client) NewKey(_ context.Context, collection string) (string, error) {
	if err := checkPath(collection); err != nil {
		return "", err
	}
	return c.ids.Next()
}

// Set writes rec at collection/key with a single PUT.
func (c *Client) Set(ctx context.Context, collection, key string, rec domain.SubmissionRecord) error {
	if err := checkPath(collection); err != nil {
		return err
	}
	if err := checkPath(key); err != nil {
		return err
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("firebase: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.locationURL(collection, key), bytes.NewReader(body))
	if err != nil {
		return c.transportError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError("network error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeError(resp)
}

func (c *Client) locationURL(collection, key string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Trim(collection, "/") + "/" + key + ".json"
	q := u.Query()
	q.Set("print", "silent")
	if c.authToken != "" {
		q.Set("auth", c.authToken)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// transportError drops the request URL, which holds the auth token, and
// scrubs the token from whatever text remains.
func (c *Client) transportError(what string, err error) error {
	cause := err
	var uerr *url.Error
	if errors.As(err, &uerr) {
		cause = uerr.Err
	}
	msg := what + ": " + cause.Error()
	if c.authToken != "" {
		msg = strings.ReplaceAll(msg, c.authToken, "REDACTED")
		msg = strings.ReplaceAll(msg, url.QueryEscape(c.authToken), "REDACTED")
	}
	return &Error{Message: msg, cause: cause}
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(raw, &payload) == nil {
		msg = payload.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// checkPath rejects empty paths and characters the database forbids in keys.
func checkPath(p string) error {
	p = strings.Trim(p, "/")
	if p == "" {
		return fmt.Errorf("firebase: empty path")
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || strings.ContainsAny(seg, ".$#[]") {
			return fmt.Errorf("firebase: invalid path segment %q", seg)
		}
	}
	return nil
}

// Lazy connects on first use and reuses that client, or that connection
// error, for the life of the process.
type Lazy struct {
	cfg  Config
	opts []Option

	once   sync.Once
	client *Client
	err    error
}

func NewLazy(cfg Config, opts ...Option) *Lazy {
	return &Lazy{cfg: cfg, opts: opts}
}

func (l *Lazy) get(ctx context.Context) (*Client, error) {
	l.once.Do(func() {
		l.client, l.err = New(context.WithoutCancel(ctx), l.cfg, l.opts...)
	})
	return l.client, l.err
}

func (l *Lazy) NewKey(ctx context.Context, collection string) (string, error) {
	c, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return c.NewKey(ctx, collection)
}

func (l *Lazy) Set(ctx context.Context, collection, key string, rec domain.SubmissionRecord) error {
	c, err := l.get(ctx)
	if err != nil {
		return err
	}
	return c.Set(ctx, collection, key, rec)
}
