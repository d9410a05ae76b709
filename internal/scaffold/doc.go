// Package scaffold generates new Braid projects (agents, tools, servers,
// workflows) from embedded template sets.
package scaffold
