package collect

import (
	"fmt"
	"strings"

	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/util"
)

// RemoteExecutor is the slice of the SSH client the collector needs.
// The real sshutil.Client satisfies it, as do test doubles.
type RemoteExecutor interface {
	Exec(cmd string) (stdout, stderr []byte, exitCode int, err error)
}

// ListSnapshots lists the snapshot files in the remote data directory with a
// single remote `ls`. The returned order and content are exactly what the
// listing produced: no sorting, filtering, or deduplication. An empty
// listing is an empty slice, not an error.
func ListSnapshots(executor RemoteExecutor, dir string) ([]string, error) {
	cmd := fmt.Sprintf("cd %s && ls", util.ShellQuotePreserveTilde(dir))
	stdout, stderr, exitCode, err := executor.Exec(cmd)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("Listing %s failed (exit %d)", dir, exitCode),
			strings.TrimSpace(string(stderr)))
	}

	var files []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// FetchSnapshot retrieves one snapshot file's raw content. A non-zero exit
// (the file vanished between listing and fetch, say) yields empty content,
// which downstream skips the same way it skips an empty file.
func FetchSnapshot(executor RemoteExecutor, dir, name string) ([]byte, error) {
	cmd := fmt.Sprintf("cd %s && cat %s", util.ShellQuotePreserveTilde(dir), util.ShellQuote(name))
	stdout, _, exitCode, err := executor.Exec(cmd)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, nil
	}
	return stdout, nil
}
