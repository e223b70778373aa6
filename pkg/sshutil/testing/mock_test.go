package testing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_ListAndCat(t *testing.T) {
	m := NewMockClient("lambda1")
	m.SetDir("/data/adva")
	m.AddFile("a.json", `{"k":1}`)
	m.AddFile("b.json", `{"k":2}`)

	out, _, code, err := m.Exec("cd '/data/adva' && ls")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a.json\nb.json", string(out))

	out, _, code, err = m.Exec("cd '/data/adva' && cat 'b.json'")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, `{"k":2}`, string(out))
}

func TestMockClient_MissingFile(t *testing.T) {
	m := NewMockClient("lambda1")
	m.SetDir("/data/adva")

	_, stderr, code, err := m.Exec("cd '/data/adva' && cat 'nope.json'")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(stderr), "No such file")
}

func TestMockClient_CannedResponse(t *testing.T) {
	m := NewMockClient("lambda1")
	m.SetCommandResponse(`cat 'boom\.json'`, CommandResponse{
		Error: errors.New("ssh: session channel open failed"),
	})
	m.AddFile("boom.json", "never served")
	m.SetDir("/data/adva")

	_, _, code, err := m.Exec("cd '/data/adva' && cat 'boom.json'")
	require.Error(t, err)
	assert.Equal(t, 0, code)
}

func TestMockClient_Close(t *testing.T) {
	m := NewMockClient("lambda1")
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())

	_, _, code, err := m.Exec("cd '/x' && ls")
	require.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestMockClient_UnknownCommand(t *testing.T) {
	m := NewMockClient("lambda1")
	_, stderr, code, err := m.Exec("uptime")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
	assert.Contains(t, string(stderr), "command not found")
}
