// Package infra contains technical adapters such as the Redis record store,
// logging and metrics exporters. These packages depend only on the
// interfaces defined in the core packages.
package infra
