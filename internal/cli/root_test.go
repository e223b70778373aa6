package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/optical"
)

func TestRootRegistersSubcommands(t *testing.T) {
	want := map[string]bool{
		"collect": false,
		"analyze": false,
		"graph":   false,
		"init":    false,
		"version": false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "command %q should be registered", name)
	}
}

func TestRootHasConfigFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "string", flag.Value.Type())
}

func TestLoadModel_RoundTrip(t *testing.T) {
	m := optical.NewModel()
	m.Merge([]optical.Record{{
		Time: time.Unix(100, 0),
		Lab:  "ithaca",
		Nodes: []optical.NodeReading{{
			Name: "amp-01",
			Measurements: optical.Measurements{
				Instantaneous: optical.Instantaneous{QFactor: 7},
			},
		}},
	}})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := loadModel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ithaca"}, loaded.LabNames())
	assert.Equal(t, 1, loaded.TotalSnapshots())
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := loadModel(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadModel_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := loadModel(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
}
