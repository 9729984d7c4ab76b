package internal_test

import (
	"bufio"
	"context"
	"io"
	"net"
	nhttp "net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal"
	"github.com/frankli0324/go-fetch/internal/http"
)

// recorded is a request as seen by a scripted server.
type recorded struct {
	Method string
	URI    string
	Host   string
	Proto  string
	Header nhttp.Header
	Body   string
	Conn   int
}

// responder returns the raw response to the i-th request, and whether the
// connection is closed after writing it.
type responder func(i int, r *recorded) (raw string, closeConn bool)

// scripted is a plain TCP server answering requests with canned bytes.
type scripted struct {
	URL string

	respond responder
	mu      sync.Mutex
	reqs    []*recorded
	conns   int
}

func serve(t *testing.T, respond responder) *scripted {
	t.Helper()
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	s := &scripted{URL: "http://" + l.Addr().String(), respond: respond}
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.conns++
			id := s.conns
			s.mu.Unlock()
			go s.handle(c, id)
		}
	}()
	return s
}

// always answers every request with raw.
func always(raw string) responder {
	return func(int, *recorded) (string, bool) { return raw, false }
}

func (s *scripted) handle(c net.Conn, id int) {
	defer c.Close()
	br := bufio.NewReader(c)
	for {
		req, err := nhttp.ReadRequest(br)
		if err != nil {
			return
		}
		body, _ := io.ReadAll(req.Body)
		r := &recorded{
			Method: req.Method, URI: req.RequestURI, Host: req.Host, Proto: req.Proto,
			Header: req.Header, Body: string(body), Conn: id,
		}
		s.mu.Lock()
		s.reqs = append(s.reqs, r)
		i := len(s.reqs) - 1
		s.mu.Unlock()

		raw, closeConn := s.respond(i, r)
		if _, err := io.WriteString(c, raw); err != nil || closeConn {
			return
		}
	}
}

func (s *scripted) requests() []*recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*recorded(nil), s.reqs...)
}

func (s *scripted) connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

// reuseTrace records the reused flag of every leased connection.
func reuseTrace() (context.Context, *[]bool) {
	var reused []bool
	ctx := internal.WithClientTrace(context.Background(), &internal.ClientTrace{
		GotConn: func(_ http.Origin, r bool) { reused = append(reused, r) },
	})
	return ctx, &reused
}

type TestDialer struct {
	net.Conn
}

// Dial implements http.Dialer.
func (t *TestDialer) Dial(context.Context, http.Origin) (net.Conn, error) {
	return t.Conn, nil
}

// Unwrap implements http.Dialer.
func (t *TestDialer) Unwrap() http.Dialer {
	return nil
}

// SendSingleRequest fetches req over a pipe and returns the pipe end the
// request is written to. The response is sent once want bytes were read,
// the result of the fetch is delivered on the returned channel.
func SendSingleRequest(req *http.Request, want int) (io.Reader, <-chan error) {
	client, server := net.Pipe()
	c := &internal.Client{}
	c.UseDialer(func(http.Dialer) http.Dialer {
		return &TestDialer{client}
	})
	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(context.Background(), req, nil)
		done <- err
	}()
	return &respondAfter{
		Reader:   io.LimitReader(server, int64(want)),
		conn:     server,
		response: "HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: close\r\n\r\n",
	}, done
}

// respondAfter writes response to conn once the limited request was read
// to its end.
type respondAfter struct {
	io.Reader
	conn     net.Conn
	response string
	once     sync.Once
}

func (r *respondAfter) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if err == io.EOF {
		r.once.Do(func() {
			go func() {
				io.WriteString(r.conn, r.response)
				r.conn.Close()
			}()
		})
	}
	return n, err
}
