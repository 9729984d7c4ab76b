package internal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/frankli0324/go-fetch/internal/dialer"
	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport"
	"github.com/frankli0324/go-fetch/utils/netpool"
)

type PreparedRequest = http.PreparedRequest
type Dialer = http.Dialer

// Handler performs a single exchange over the network, redirects are not
// followed. The body of a non-redirect response is decoded into dst.
type Handler = func(ctx context.Context, req *PreparedRequest, dst http.Decoder) (*http.Response, error)
type Middleware func(next Handler) Handler

const maxRedirects = 20

// Client is an HTTP/1.x client keeping one idle connection per origin.
// The zero value is ready to use.
//
// A Client performs one exchange at a time, concurrent fetches on one
// Client are not supported, use one Client per goroutine.
type Client struct {
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// MaxHeaderBytes bounds the response header block, defaults to 64KiB.
	// It is applied to connections dialed after it was set.
	MaxHeaderBytes int

	middlewares []Middleware
	dialer      Dialer
	tlsFactory  *dialer.TLSFactory
	pool        *netpool.Pool
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer with the one returned by f, which is handed
// the current dialer. Idle connections are closed.
func (c *Client) UseDialer(f func(Dialer) Dialer) {
	current := c.dialer
	if current == nil {
		current = defaultDialer.Clone()
	}
	c.setDialer(f(current))
}

// UseCoreDialer is like [Client.UseDialer], f is handed a copy of the
// current *[dialer.CoreDialer] to modify.
func (c *Client) UseCoreDialer(f func(*dialer.CoreDialer) Dialer) {
	cd := dialer.Core(c.getDialer())
	if cd == nil {
		cd = defaultDialer
	}
	c.setDialer(f(cd.Clone()))
}

func (c *Client) setDialer(d Dialer) {
	c.dialer = d
	c.tlsFactory = nil
	c.CloseIdleConnections()
}

// CloseIdleConnections closes every pooled connection.
func (c *Client) CloseIdleConnections() {
	if c.pool != nil {
		c.pool.CloseIdle()
	}
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

func (c *Client) getPool() *netpool.Pool {
	if c.pool == nil {
		c.pool = netpool.NewPool(c.MaxHeaderBytes, c.logger())
	} else {
		c.pool.Configure(c.MaxHeaderBytes, c.logger())
	}
	return c.pool
}

// Fetch sends req over HTTP or HTTPS, following up to 20 redirects, and
// decodes the body of the final response into dst. A nil dst discards the
// body. Connections are reused across calls when the server allows it.
//
// The method and URL of the prepared request are rewritten while following
// redirects, req itself is left untouched.
func (c *Client) Fetch(ctx context.Context, req *http.Request, dst http.Decoder) (*http.Response, error) {
	log := c.logger()
	resp, err := c.fetch(ctx, req, dst)
	if err != nil {
		log.Warnf("encountered error: %v", err)
	}
	return resp, err
}

func (c *Client) FetchBytes(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	var b http.Bytes
	resp, err := c.Fetch(ctx, req, &b)
	return resp, b, err
}

func (c *Client) FetchText(ctx context.Context, req *http.Request) (*http.Response, string, error) {
	var t http.Text
	resp, err := c.Fetch(ctx, req, &t)
	return resp, string(t), err
}

// checkScheme rejects targets other than http and https before anything
// else about them is validated.
func checkScheme(op string, u *url.URL) error {
	if s := u.Scheme; s != "http" && s != "https" {
		return &http.Error{Kind: http.KindWrongScheme, Op: op, Err: fmt.Errorf("unsupported scheme %q", s)}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, req *http.Request, dst http.Decoder) (*http.Response, error) {
	// unparsable URLs are left for Prepare to report
	if u, err := url.Parse(req.URL); err == nil {
		if err := checkScheme("fetch", u); err != nil {
			return nil, err
		}
	}
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	if dst == nil {
		dst = http.Discard
	}
	log, trace := c.logger(), ContextClientTrace(ctx)
	log.Infof("fetching %s %s", pr.Method, pr.U)

	next := c.roundTrip
	for _, mw := range c.middlewares {
		next = mw(next)
	}
	for redirects := 0; ; redirects++ {
		if redirects >= maxRedirects {
			return nil, http.ErrTooManyRedirects
		}
		resp, err := next(ctx, pr, dst)
		if err != nil {
			return nil, err
		}
		if !transport.IsRedirectStatus(resp.StatusCode) {
			return resp, nil
		}

		location, ok := resp.Header["Location"]
		if !ok {
			return nil, &http.Error{Kind: http.KindBadResponse, Op: "redirect", Err: &http.ParseError{What: "redirect, missing Location"}}
		}
		target, err := pr.U.Parse(location[0])
		if err != nil {
			return nil, &http.Error{Kind: http.KindBadResponse, Op: "redirect", Err: err}
		}
		trace.redirect(resp.StatusCode, target.String())
		log.Infof("following '%s' redirect to %s", resp.Status, target)

		if err := checkScheme("redirect", target); err != nil {
			return nil, err
		}
		toGet := transport.IsRedirectMethodGet(resp.StatusCode, pr.Method)
		if toGet && pr.Method != "GET" {
			log.Infof("method changed in redirect from %s to GET", pr.Method)
		}
		if err := pr.Redirect(target, toGet); err != nil {
			return nil, &http.Error{Kind: http.KindBadResponse, Op: "redirect", Err: err}
		}
	}
}
