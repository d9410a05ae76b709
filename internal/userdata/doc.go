// Package userdata manages the ~/.braid/ directory structure including
// added server templates, the user-local registry source, token env files,
// and generated deploy state. It handles initialization, path resolution,
// permission enforcement, and health checks.
package userdata
