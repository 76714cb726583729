package tui

import "errors"

// ErrNilPorts indicates the TUI was constructed without ports.
var ErrNilPorts = errors.New("tui: nil ports")

// ErrNoLiveSearch indicates the live search port is missing.
var ErrNoLiveSearch = errors.New("tui: live search service not configured")
