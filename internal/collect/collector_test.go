package collect

import (
	"fmt"
	"testing"
	"time"

	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/logger"
	"github.com/jal555/optiqa/pkg/sshutil"
	sshtest "github.com/jal555/optiqa/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotDoc builds a minimal valid snapshot document: one timestamp, one
// lab, one node, every metric set to v.
func snapshotDoc(ts int64, lab, node string, v float64) string {
	inst := fmt.Sprintf(`{"power":%[1]g,"ber":%[1]g,"snr":%[1]g,"dgd":%[1]g,"qfactor":%[1]g,"chromatic_dispersion":%[1]g,"carrier_offset":%[1]g}`, v)
	rng := fmt.Sprintf(`{"low":%g,"median":%g,"high":%g}`, v-1, v, v+1)
	bin := fmt.Sprintf(`{"power":%[1]s,"ber":%[1]s,"snr":%[1]s,"dgd":%[1]s,"qfactor":%[1]s,"chromatic_dispersion":%[1]s,"carrier_offset":%[1]s}`, rng)
	return fmt.Sprintf(`{"%d":[{"%s":[{"%s":{"instantaneous":%s,"fifteen_minute_bin":%s}}]}]}`, ts, lab, node, inst, bin)
}

func newTestCollector(mock *sshtest.MockClient, maxFiles int) *Collector {
	return New(Options{
		Host:     "testbed",
		User:     "observer",
		DataDir:  "data",
		MaxFiles: maxFiles,
		Log:      logger.Noop(),
		Dial: func(host, user, password string, timeout time.Duration) (sshutil.SSHClient, error) {
			return mock, nil
		},
	})
}

func TestCollector_MergesAllFiles(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("s1.json", snapshotDoc(100, "ithaca", "amp-01", 1))
	mock.AddFile("s2.json", snapshotDoc(200, "ithaca", "amp-02", 2))
	mock.AddFile("s3.json", snapshotDoc(100, "geneva", "amp-01", 3))

	c := newTestCollector(mock, 0)
	model, err := c.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"ithaca", "geneva"}, model.LabNames())
	assert.Equal(t, 3, model.TotalSnapshots())
	assert.Equal(t, []string{"amp-01", "amp-02"}, model.NodeNames("ithaca"))
	assert.True(t, mock.Closed(), "session must be closed after a clean run")
}

func TestCollector_DialFailureIsFatal(t *testing.T) {
	c := New(Options{
		Host: "unreachable",
		Log:  logger.Noop(),
		Dial: func(host, user, password string, timeout time.Duration) (sshutil.SSHClient, error) {
			return nil, errors.New(errors.ErrConnect, "Could not connect to unreachable", "")
		},
	})

	model, err := c.Run()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConnect))
	assert.Nil(t, model)
}

func TestCollector_FileCeilingStopsGracefully(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	for i := 0; i < 7; i++ {
		mock.AddFile(fmt.Sprintf("s%d.json", i), snapshotDoc(int64(100+i), "ithaca", "amp-01", 1))
	}

	c := newTestCollector(mock, 2)
	model, err := c.Run()
	require.NoError(t, err, "hitting the ceiling is a graceful stop, not a failure")

	require.Equal(t, 2, model.TotalSnapshots())
	snaps := model.Lab("ithaca").Snapshots
	assert.Equal(t, time.Unix(100, 0), snaps[0].Time, "exactly the first files in listing order are processed")
	assert.Equal(t, time.Unix(101, 0), snaps[1].Time)
}

func TestCollector_TransportFailureReturnsPartialModel(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("s1.json", snapshotDoc(100, "ithaca", "amp-01", 1))
	mock.AddFile("s2.json", snapshotDoc(200, "ithaca", "amp-01", 2))
	mock.AddFile("s3.json", snapshotDoc(300, "ithaca", "amp-01", 3))
	mock.SetCommandResponse("cd 'data' && cat 's2.json'", sshtest.CommandResponse{
		Error: errors.New(errors.ErrTransport, "Session dropped", ""),
	})

	log := logger.NewBufferLogger()
	c := New(Options{
		Host: "testbed", DataDir: "data", Log: log,
		Dial: func(host, user, password string, timeout time.Duration) (sshutil.SSHClient, error) {
			return mock, nil
		},
	})

	model, err := c.Run()
	require.NoError(t, err, "a mid-run transport failure keeps already merged data")

	assert.Equal(t, 1, model.TotalSnapshots(), "only the file fetched before the failure is merged")
	assert.True(t, log.HasLevel("warn"))
	assert.True(t, mock.Closed(), "session must be closed even when aborting")
}

func TestCollector_ListingTransportFailureYieldsEmptyModel(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetCommandResponse("cd 'data' && ls", sshtest.CommandResponse{
		Error: errors.New(errors.ErrTransport, "Session dropped", ""),
	})

	c := newTestCollector(mock, 0)
	model, err := c.Run()
	require.NoError(t, err)

	assert.NotNil(t, model)
	assert.Empty(t, model.LabNames())
}

func TestCollector_MalformedFileSkipped(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("bad.json", `{"100": [{"ithaca`)
	mock.AddFile("good.json", snapshotDoc(200, "ithaca", "amp-01", 2))

	log := logger.NewBufferLogger()
	c := New(Options{
		Host: "testbed", DataDir: "data", Log: log,
		Dial: func(host, user, password string, timeout time.Duration) (sshutil.SSHClient, error) {
			return mock, nil
		},
	})

	model, err := c.Run()
	require.NoError(t, err, "one malformed file must not end the run")

	assert.Equal(t, 1, model.TotalSnapshots(), "the file after the malformed one is still processed")
	assert.True(t, log.HasLevel("warn"))
}

func TestCollector_EmptyFileSkipped(t *testing.T) {
	mock := sshtest.NewMockClient("testbed")
	mock.SetDir("data")
	mock.AddFile("empty.json", "")
	mock.AddFile("s1.json", snapshotDoc(100, "ithaca", "amp-01", 1))

	c := newTestCollector(mock, 0)
	model, err := c.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, model.TotalSnapshots())
}
