package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNetworkFailure indicates a transport error or timeout talking to the catalog API
	ErrNetworkFailure = errors.New("catalog API is unreachable")

	// ErrDecodeFailure indicates the catalog API returned a malformed response
	ErrDecodeFailure = errors.New("malformed catalog response")

	// ErrInconsistentCacheState indicates an expected remote key is missing.
	// The local cache and the paging cursor have diverged; a full refresh recovers.
	ErrInconsistentCacheState = errors.New("remote key missing for paging anchor")

	// ErrStaleLoad indicates a load finished after its paging session was torn down
	ErrStaleLoad = errors.New("paging session no longer active")

	// ErrNotFound indicates the requested movie or show does not exist
	ErrNotFound = errors.New("item not found")

	// ErrRequestRejected indicates the catalog API refused a request as invalid.
	// Repeating the same request cannot succeed.
	ErrRequestRejected = errors.New("catalog API rejected the request")

	// ErrAuthFailed indicates the API key or access token was rejected
	ErrAuthFailed = errors.New("API credentials are invalid")

	// ErrUnknownCategory indicates a category tag that is not registered
	ErrUnknownCategory = errors.New("unknown category")
)
