package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nozzle/throttler"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	http "github.com/frankli0324/go-fetch"
)

type options struct {
	method      string
	headers     []string
	data        string
	head        bool
	showHeaders bool
	http10      bool
	resolve     []string
	retries     uint
	retryDelay  time.Duration
	parallel    int
	logLevel    string
}

// result of fetching one URL
type result struct {
	url  string
	resp *http.Response
	body []byte
	err  error
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "gofetch [flags] URL...",
		Short:         "Fetch URLs over HTTP/1.x",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), opts, args, stdout, stderr)
			if err != nil {
				fmt.Fprintln(stderr, "gofetch:", err)
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.method, "request", "X", "", "request method, GET by default")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, `request header "Name: value", repeatable`)
	f.StringVarP(&opts.data, "data", "d", "", "request body, implies POST")
	f.BoolVarP(&opts.head, "head", "I", false, "send a HEAD request")
	f.BoolVarP(&opts.showHeaders, "include", "i", false, "print the status line and response headers")
	f.BoolVar(&opts.http10, "http1.0", false, "send HTTP/1.0 requests")
	f.StringArrayVar(&opts.resolve, "resolve", nil, `connect to "host=ip" instead of resolving host, repeatable`)
	f.UintVar(&opts.retries, "retries", 0, "retry transport and TLS failures this many times")
	f.DurationVar(&opts.retryDelay, "retry-delay", 500*time.Millisecond, "initial delay between retries")
	f.IntVarP(&opts.parallel, "parallel", "P", 4, "number of URLs fetched at once")
	f.StringVar(&opts.logLevel, "log-level", "warning", "logrus level: trace, debug, info, warning, error")
	return cmd
}

func run(ctx context.Context, opts *options, urls []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(level)

	hosts, err := parseResolve(opts.resolve)
	if err != nil {
		return err
	}
	header, err := parseHeaders(opts.headers)
	if err != nil {
		return err
	}
	if opts.parallel < 1 {
		opts.parallel = 1
	}

	results := make([]result, len(urls))
	var mu sync.Mutex
	t := throttler.New(opts.parallel, len(urls))
	for i, u := range urls {
		go func(i int, u string) {
			// a Client serves one fetch at a time
			c := &http.Client{Logger: log.WithField("url", u)}
			if len(hosts) != 0 {
				c.UseCoreDialer(func(cd *http.CoreDialer) http.Dialer {
					cd.ResolveConfig = &http.ResolveConfig{StaticHosts: hosts}
					return cd
				})
			}
			res := fetch(ctx, c, opts, newRequest(opts, u, header), log)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			t.Done(res.err)
		}(i, u)
		t.Throttle()
	}

	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.url, res.err)
			continue
		}
		if opts.showHeaders || opts.head {
			if err := printHeader(stdout, res.resp); err != nil {
				return err
			}
		}
		stdout.Write(res.body)
	}
	return t.Err()
}

func newRequest(opts *options, url string, header http.Header) *http.Request {
	req := &http.Request{Method: opts.method, URL: url, Header: header.Clone()}
	if opts.http10 {
		req.Version = http.HTTP10
	}
	if opts.data != "" {
		req.Body = opts.data
		if req.Method == "" {
			req.Method = "POST"
		}
		if req.Header.Get("Content-Length") == "" && req.Header.Get("Transfer-Encoding") == "" {
			req.Header.Set("Content-Length", fmt.Sprint(len(opts.data)))
		}
	}
	if opts.head {
		req.Method = "HEAD"
	}
	return req
}

// fetch retries whole fetches failing below the HTTP layer, responses the
// server sent are never retried.
func fetch(ctx context.Context, c *http.Client, opts *options, req *http.Request, log logrus.FieldLogger) result {
	res := result{url: req.URL}
	res.err = retry.Do(
		func() error {
			var body http.Bytes
			resp, err := c.Fetch(ctx, req, &body)
			if err != nil {
				return err
			}
			res.resp, res.body = resp, body
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(opts.retries+1),
		retry.Delay(opts.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("retrying %s (%d/%d): %v", req.URL, n+1, opts.retries, err)
		}),
	)
	return res
}

func retryable(err error) bool {
	var e *http.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == http.KindTransport || e.Kind == http.KindTLS
}

func printHeader(w io.Writer, resp *http.Response) error {
	fmt.Fprintf(w, "%s %s\n", resp.Proto, resp.Status)
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Value")
	for _, name := range names {
		for _, v := range resp.Header[name] {
			if err := table.Append([]string{name, v}); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

func parseHeaders(raw []string) (http.Header, error) {
	header := http.Header{}
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return header, nil
}

func parseResolve(raw []string) (map[string]string, error) {
	hosts := map[string]string{}
	for _, r := range raw {
		host, ip, ok := strings.Cut(r, "=")
		if !ok || host == "" || ip == "" {
			return nil, fmt.Errorf("invalid resolve entry %q, expected \"host=ip\"", r)
		}
		hosts[strings.ToLower(host)] = ip
	}
	return hosts, nil
}
