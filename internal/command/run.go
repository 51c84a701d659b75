package command

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Run executes cmd, announcing caption first. The child's output is streamed
// to stderr for the operator and captured so a failure can carry the
// diagnostics. Blocks until the child exits.
func Run(logger *log.Logger, caption string, cmd *exec.Cmd) error {
	if logger == nil {
		logger = log.Default()
	}
	logger.Info(caption)

	var output bytes.Buffer
	sink := io.MultiWriter(os.Stderr, &output)
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(output.String())
		if diag != "" {
			return fmt.Errorf("%s: %s: %w", caption, diag, err)
		}
		return fmt.Errorf("%s: %w", caption, err)
	}
	return nil
}
