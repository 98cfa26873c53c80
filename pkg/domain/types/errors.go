package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures of a poll cycle. Only ErrTagConfig aborts a
// cycle; the others are logged and the cycle moves on to the next repository.
var (
	ErrTagConfig  = goerr.NewTag("config")
	ErrTagFetch   = goerr.NewTag("fetch")
	ErrTagStorage = goerr.NewTag("storage")
	ErrTagNotify  = goerr.NewTag("notify")
	ErrTagVersion = goerr.NewTag("version")
)
