package ubi

import "github.com/3leaps/ubi/internal/uerr"

// Kind classifies why an install failed. See the Kind constants below for
// the closed set of values a caller can switch on.
type Kind = uerr.Kind

// Error is the concrete error type every failing operation in this package
// returns, wrapped where the failure originated in another layer.
type Error = uerr.Error

const (
	InvalidRequest    = uerr.InvalidRequest
	Unauthorized      = uerr.Unauthorized
	RateLimited       = uerr.RateLimited
	NotFound          = uerr.NotFound
	Transport         = uerr.Transport
	Malformed         = uerr.Malformed
	NoMatch           = uerr.NoMatch
	NoExecutableFound = uerr.NoExecutableFound
	UnsafePath        = uerr.UnsafePath
	ExtractionFailed  = uerr.ExtractionFailed
	IoFailed          = uerr.IoFailed
)
