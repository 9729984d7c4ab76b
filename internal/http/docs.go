// package http holds the data model shared by the client and the wire
// layer: requests and their prepared form, response parts, origins, body
// decoders and the error kinds. It is named like the top level package so
// that the exported aliases read naturally.
//
// Header and NoBody are taken from net/http as is.
package http

import (
	"net/http"
)

type Header = http.Header

var NoBody = http.NoBody
