package sshutil

import (
	"bytes"
	"fmt"

	"github.com/jal555/optiqa/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Exec runs a command on the remote host and returns the output.
// Returns stdout, stderr, exit code, and any error.
// Exit code is -1 if the command couldn't be executed at all.
//
// Errors carry the TRANSPORT code: a session-level failure here (for
// example the server dropping the connection after too many requests) is
// non-fatal to results collected so far, but the caller is expected to stop
// issuing further commands on this client.
func (c *Client) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return nil, nil, -1, errors.WrapWithCode(err, errors.ErrTransport,
			"Failed to create SSH session",
			"The connection may have been closed by the host, possibly for exceeding its request rate.")
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	exitCode = 0
	err = session.Run(cmd)
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			exitCode = exitErr.ExitStatus()
			err = nil // Command ran, just had non-zero exit
		} else {
			return nil, nil, -1, errors.WrapWithCode(err, errors.ErrTransport,
				fmt.Sprintf("Failed to execute command: %s", cmd),
				"The session dropped mid-command. Results collected so far are preserved.")
		}
	}

	return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitCode, nil
}
