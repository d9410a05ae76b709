// Package deploy plans and sequences multi-service MCP deployments: it
// layers services into dependency waves, starts each wave concurrently, and
// gates the next wave on bounded health probing of the current one.
package deploy
