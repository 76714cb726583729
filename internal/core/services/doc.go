// Package services implements the driving port interfaces.
// Services contain the core search logic and orchestrate
// calls to driven ports (adapters).
//
// LiveSearchService is the heart of the application: the reactive
// pipeline that turns raw keystrokes into a stable stream of registry
// results.
package services
