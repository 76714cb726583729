// Package domain contains the core types of pkgscout: search terms,
// package results, and the errors shared across ports and adapters.
// It has no dependencies outside the standard library.
package domain
