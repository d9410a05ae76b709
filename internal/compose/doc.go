// Package compose generates Docker deployment artifacts for MCP servers:
// per-runtime Dockerfiles, compose service fragments with health checks and
// ordered depends_on conditions, and the merged docker-compose.yml.
package compose
