package deploy

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// ComposeRunner starts services with `docker compose up -d`.
type ComposeRunner struct {
	ComposeFile string
	Logger      *zap.Logger

	// execCommand is swapped in tests.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewComposeRunner returns a runner for the given compose file.
func NewComposeRunner(composeFile string, logger *zap.Logger) *ComposeRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComposeRunner{
		ComposeFile: composeFile,
		Logger:      logger,
		execCommand: exec.CommandContext,
	}
}

// Start implements Runner.
func (r *ComposeRunner) Start(ctx context.Context, services []string) error {
	args := r.Args(services)
	r.Logger.Info("docker compose up", zap.Strings("args", args))

	cmd := r.execCommand(ctx, "docker", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker %v: %w\n%s", args, err, out)
	}
	return nil
}

// Args returns the docker argv (without the leading "docker") used to start
// the given services. Exposed for tests and dry runs.
func (r *ComposeRunner) Args(services []string) []string {
	args := []string{"compose", "-f", r.ComposeFile, "up", "-d", "--no-recreate"}
	return append(args, services...)
}
