// Package observable provides the reactive primitives the live search
// pipeline is built from: mutable observable values with replay-latest
// subscriptions, derived read-only properties, broadcast sinks, and the
// dispatcher abstraction used to marshal notifications onto a consumer's
// delivery context.
package observable
