package collect

import (
	stderrors "errors"
	"testing"

	"github.com/jal555/optiqa/internal/errors"
	sshtest "github.com/jal555/optiqa/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSnapshots_ReturnsListingOrder(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("2023-04-11.json", "{}")
	mock.AddFile("2023-04-10.json", "{}")
	mock.AddFile("2023-04-12.json", "{}")

	files, err := ListSnapshots(mock, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-04-11.json", "2023-04-10.json", "2023-04-12.json"}, files,
		"listing order is preserved, never sorted")
}

func TestListSnapshots_EmptyDirectory(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")

	files, err := ListSnapshots(mock, "data")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListSnapshots_NonZeroExit(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")

	_, err := ListSnapshots(mock, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}

func TestListSnapshots_ExecErrorPropagates(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	sessionErr := errors.New(errors.ErrTransport, "Session dropped", "")
	mock.SetCommandResponse("cd 'data' && ls", sshtest.CommandResponse{Error: sessionErr})

	_, err := ListSnapshots(mock, "data")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, sessionErr))
}

func TestListSnapshots_StripsCarriageReturns(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetCommandResponse("cd 'data' && ls", sshtest.CommandResponse{
		Stdout: []byte("a.json\r\nb.json\r\n"),
	})

	files, err := ListSnapshots(mock, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, files)
}

func TestFetchSnapshot_ReturnsContent(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("s1.json", `{"100": []}`)

	raw, err := FetchSnapshot(mock, "data", "s1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"100": []}`, string(raw))
}

func TestFetchSnapshot_MissingFileYieldsEmptyContent(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")

	raw, err := FetchSnapshot(mock, "data", "vanished.json")
	require.NoError(t, err, "a file gone between listing and fetch is not a failure")
	assert.Nil(t, raw)
}

func TestFetchSnapshot_QuotesAwkwardNames(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("snapshot (1).json", "content")

	raw, err := FetchSnapshot(mock, "data", "snapshot (1).json")
	require.NoError(t, err)
	assert.Equal(t, "content", string(raw))
}
