package http

import (
	"github.com/frankli0324/go-fetch/internal"
)

type Client = internal.Client
type Handler = internal.Handler
type Middleware = internal.Middleware

type ClientTrace = internal.ClientTrace

var (
	WithClientTrace    = internal.WithClientTrace
	ContextClientTrace = internal.ContextClientTrace
)
