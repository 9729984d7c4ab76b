package http

import (
	"net/http"

	ihttp "github.com/frankli0324/go-fetch/internal/http"
)

type Header = http.Header
type Request = ihttp.Request
type PreparedRequest = ihttp.PreparedRequest
type Response = ihttp.Response
type Origin = ihttp.Origin

type Version = ihttp.Version

const (
	HTTP11 = ihttp.HTTP11
	HTTP10 = ihttp.HTTP10
)

// Decoders turn a response body into a value. [Bytes] and [Text] read the
// whole body, [Empty] only accepts responses without one.
type (
	Decoder     = ihttp.Decoder
	DecoderFunc = ihttp.DecoderFunc
	Body        = ihttp.Body
	Empty       = ihttp.Empty
	Bytes       = ihttp.Bytes
	Text        = ihttp.Text
)

var Discard = ihttp.Discard

type Error = ihttp.Error
type ErrorKind = ihttp.ErrorKind
type ParseError = ihttp.ParseError

const (
	KindTransport        = ihttp.KindTransport
	KindTLS              = ihttp.KindTLS
	KindRequest          = ihttp.KindRequest
	KindWrongScheme      = ihttp.KindWrongScheme
	KindNoDomain         = ihttp.KindNoDomain
	KindTooManyRedirects = ihttp.KindTooManyRedirects
	KindBadResponse      = ihttp.KindBadResponse
)

var (
	ErrWrongScheme      = ihttp.ErrWrongScheme
	ErrNoDomain         = ihttp.ErrNoDomain
	ErrTooManyRedirects = ihttp.ErrTooManyRedirects
	ErrBadResponse      = ihttp.ErrBadResponse
)
