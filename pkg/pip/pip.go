package pip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/cmdexec"
	"github.com/covert-tool/covert/pkg/errors"
)

// maxCapturedOutput bounds how much command output is kept in error messages.
const maxCapturedOutput = 4096

// CLI invokes pip as a subprocess.
//
// Fields:
//   - Executable: pip executable name or path; defaults to "pip"
//   - WorkDir: Working directory for pip invocations; empty for current
//   - Timeout: Bound for a single pip invocation; zero disables the bound
type CLI struct {
	Executable string
	WorkDir    string
	Timeout    time.Duration
}

// New creates a pip CLI adapter with the default executable.
//
// Parameters:
//   - workDir: Working directory for pip invocations
//   - timeout: Bound for a single pip invocation
//
// Returns:
//   - *CLI: Configured adapter
func New(workDir string, timeout time.Duration) *CLI {
	return &CLI{Executable: "pip", WorkDir: workDir, Timeout: timeout}
}

// executable returns the configured executable or the default.
func (c *CLI) executable() string {
	if c.Executable != "" {
		return c.Executable
	}
	return "pip"
}

// Install installs a specific version of a package.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Package name (validated and lowercased before use)
//   - version: Exact version to pin (name==version)
//
// Returns:
//   - error: *errors.ValidationError for bad input, *errors.InstallError on failure
func (c *CLI) Install(ctx context.Context, name, version string) error {
	sanitized, err := SanitizeName(name)
	if err != nil {
		return err
	}
	if version != "" && !ValidateVersion(version) {
		return errors.NewValidationErrorf("invalid version format: %s", version)
	}

	spec := sanitized
	if version != "" {
		spec = fmt.Sprintf("%s==%s", sanitized, version)
	}

	log.Info().Str("spec", spec).Msg("installing package")

	res, runErr := cmdexec.Run(ctx, c.executable(), []string{"install", spec}, c.WorkDir, c.Timeout)
	if runErr != nil {
		return &errors.InstallError{
			Package: sanitized,
			Version: version,
			Output:  truncateOutput(res.Output),
			Err:     runErr,
		}
	}

	return nil
}

// Uninstall removes a package without confirmation prompts.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Package name (validated and lowercased before use)
//
// Returns:
//   - error: *errors.ValidationError for bad input, *errors.InstallError on failure
func (c *CLI) Uninstall(ctx context.Context, name string) error {
	sanitized, err := SanitizeName(name)
	if err != nil {
		return err
	}

	log.Info().Str("package", sanitized).Msg("uninstalling package")

	res, runErr := cmdexec.Run(ctx, c.executable(), []string{"uninstall", "-y", sanitized}, c.WorkDir, c.Timeout)
	if runErr != nil {
		return &errors.InstallError{
			Package: sanitized,
			Output:  truncateOutput(res.Output),
			Err:     runErr,
		}
	}

	return nil
}

// Freeze returns the current requirement set as pip freeze text.
//
// Returns:
//   - string: pip freeze output, one "name==version" line per package
//   - error: When the freeze command fails
func (c *CLI) Freeze(ctx context.Context) (string, error) {
	res, err := cmdexec.Run(ctx, c.executable(), []string{"freeze"}, c.WorkDir, c.Timeout)
	if err != nil {
		return "", fmt.Errorf("pip freeze failed: %s", truncateOutput(res.Output))
	}
	return string(res.Output), nil
}

// truncateOutput trims command output to a bounded length for error capture.
func truncateOutput(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > maxCapturedOutput {
		return text[:maxCapturedOutput] + "... (truncated)"
	}
	return text
}
