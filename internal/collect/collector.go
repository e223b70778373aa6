package collect

import (
	"time"

	"github.com/jal555/optiqa/internal/config"
	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/logger"
	"github.com/jal555/optiqa/internal/optical"
	"github.com/jal555/optiqa/pkg/sshutil"
)

// Dialer establishes the remote session. It exists so tests can swap in a
// mock client; the default is sshutil.Dial.
type Dialer func(host, user, password string, timeout time.Duration) (sshutil.SSHClient, error)

// Options configures one collection run.
type Options struct {
	Host           string
	User           string
	Password       string
	DataDir        string
	ConnectTimeout time.Duration
	Delay          time.Duration
	MaxFiles       int
	Log            logger.Logger
	Dial           Dialer
}

// Collector runs the ingestion pipeline: connect, list, then a strictly
// sequential fetch/parse/merge loop. One file is fully merged before the
// next is fetched; there is deliberately no concurrency so the throttle is
// the only thing governing request rate.
type Collector struct {
	opts   Options
	parser *optical.Parser
	log    logger.Logger
}

// New creates a Collector. Zero-valued throttle options pick up the
// standard defaults.
func New(opts Options) *Collector {
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = config.DefaultConnectTimeout
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = config.DefaultMaxFiles
	}
	if opts.Dial == nil {
		opts.Dial = func(host, user, password string, timeout time.Duration) (sshutil.SSHClient, error) {
			return sshutil.Dial(host, user, password, timeout)
		}
	}
	return &Collector{
		opts:   opts,
		parser: optical.NewParser(opts.Log),
		log:    opts.Log,
	}
}

// Run executes a full collection run and returns the assembled model.
//
// A connect failure is fatal: no session means no data, so the error is
// returned with no model. Everything after a successful connect is
// non-fatal to results already merged: a transport error aborts the
// remaining enumeration and the partial model is returned, and the session
// is closed on every exit path.
func (c *Collector) Run() (*optical.Model, error) {
	c.log.Info("connecting to %s", c.opts.Host)
	client, err := c.opts.Dial(c.opts.Host, c.opts.User, c.opts.Password, c.opts.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return c.collect(client)
}

// collect drives the enumeration loop against an established session.
func (c *Collector) collect(client RemoteExecutor) (*optical.Model, error) {
	model := optical.NewModel()

	files, err := ListSnapshots(client, c.opts.DataDir)
	if err != nil {
		if errors.IsCode(err, errors.ErrTransport) {
			c.log.Warn("listing failed, returning empty model: %v", err)
			return model, nil
		}
		return nil, err
	}
	c.log.Info("found %d snapshot files in %s", len(files), c.opts.DataDir)

	throttle := NewThrottle(c.opts.Delay, c.opts.MaxFiles)

	for _, name := range files {
		if !throttle.Admit() {
			c.log.Info("file ceiling of %d reached, stopping with collected data", c.opts.MaxFiles)
			break
		}

		raw, err := FetchSnapshot(client, c.opts.DataDir, name)
		if err != nil {
			// Session-level failure, likely the host cutting us off for
			// request rate. Keep what has been merged so far.
			c.log.Warn("fetch of %s failed, returning collected data: %v", name, err)
			break
		}

		records, err := c.parser.Parse(raw)
		if err != nil {
			c.log.Warn("skipping %s: %v", name, err)
			continue
		}
		if len(records) == 0 {
			// Empty file, skipped silently.
			c.log.Debug("skipping empty file %s", name)
			continue
		}

		model.Merge(records)
		c.log.Debug("merged %s: %d records", name, len(records))
	}

	return model, nil
}
