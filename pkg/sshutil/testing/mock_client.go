// Package testing provides a mock SSH client for exercising code that
// depends on sshutil.SSHClient without a live connection.
package testing

import (
	"errors"
	"path"
	"regexp"
	"strings"
	"sync"
)

// CommandResponse defines a canned response for a specific command pattern.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

// MockClient simulates an SSH connection for testing.
// It understands the two command shapes the collector issues
// ("cd <dir> && ls" and "cd <dir> && cat <file>") against a virtual
// directory of snapshot files, and supports canned responses for
// everything else.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	commands map[string]CommandResponse // pattern -> response

	// Virtual snapshot directory: filenames in insertion order.
	dir       string
	fileOrder []string
	files     map[string]string
}

// NewMockClient creates a new mock SSH client with an empty snapshot directory.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:     host,
		address:  host + ":22",
		commands: make(map[string]CommandResponse),
		files:    make(map[string]string),
	}
}

// SetDir sets the virtual snapshot directory the mock serves.
func (m *MockClient) SetDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dir = dir
}

// AddFile registers a snapshot file with the given content.
// Listing order follows insertion order, like a remote `ls` would
// return a stable order.
func (m *MockClient) AddFile(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		m.fileOrder = append(m.fileOrder, name)
	}
	m.files[name] = content
}

// SetCommandResponse registers a canned response for a command pattern.
// The pattern can be an exact string or a regex pattern. Canned responses
// take precedence over the virtual directory.
func (m *MockClient) SetCommandResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[pattern] = resp
}

// Exec runs a command against the canned responses and virtual directory.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}

	// Check for exact command matches first
	if resp, ok := m.commands[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
	}

	// Check for pattern matches
	for pattern, resp := range m.commands {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
		}
	}

	return m.parseAndExecute(cmd)
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string {
	return m.address
}

// parseAndExecute handles the collector's command shapes.
func (m *MockClient) parseAndExecute(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	cmd = strings.TrimSpace(cmd)

	// "cd <dir> && ls"
	if dir, rest, ok := splitCd(cmd); ok {
		if rest == "ls" {
			if m.dir != "" && dir != m.dir {
				return nil, []byte("no such directory"), 1, nil
			}
			return []byte(strings.Join(m.fileOrder, "\n")), nil, 0, nil
		}

		// "cd <dir> && cat <file>"
		if name, ok := strings.CutPrefix(rest, "cat "); ok {
			name = unquote(strings.TrimSpace(name))
			content, ok := m.files[path.Base(name)]
			if !ok {
				return nil, []byte("cat: " + name + ": No such file or directory"), 1, nil
			}
			return []byte(content), nil, 0, nil
		}
	}

	return nil, []byte("command not found"), 127, nil
}

// splitCd splits a "cd <dir> && <rest>" command into its directory and rest.
func splitCd(cmd string) (dir, rest string, ok bool) {
	after, found := strings.CutPrefix(cmd, "cd ")
	if !found {
		return "", "", false
	}
	idx := strings.Index(after, " && ")
	if idx == -1 {
		return "", "", false
	}
	return unquote(strings.TrimSpace(after[:idx])), strings.TrimSpace(after[idx+4:]), true
}

// unquote strips the single quotes ShellQuote adds.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return strings.ReplaceAll(s[1:len(s)-1], "'\\''", "'")
	}
	return s
}
