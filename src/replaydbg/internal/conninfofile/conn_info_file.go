// Package conninfofile manages the connection-parameters file written when
// the server attaches in deferred mode: an external process watches the file,
// launches the remote debugger client with the recorded parameters, and the
// open connection is delivered to the server afterwards.
package conninfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tracekit/replaydbg/src/replaydbg/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKeyInfoFile = "connInfoFilePath"

// Connection parameter field names shared with the launcher.
const (
	FieldAddress  = "debugger-address"
	FieldTraceDir = "trace-dir"
	FieldPid      = "target-pid"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ConnInfoFile is an interface to manage contents of a single connection
// parameters file. It is written when the server decides to attach and read
// by the client launcher.
type ConnInfoFile interface {
	UpdateField(key string, value string) error
	// Path returns the configured file path, or "" when deferred attach is
	// not configured; callers use this to select sync vs deferred mode.
	Path() string
}

type module struct {
	infofile     string
	logger       *zap.SugaredLogger
	fs           fs.ReplayFS
	fileContents map[string]string
	mu           sync.Mutex
}

// Params define values to be used by ConnInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	FS        fs.ReplayFS
}

// New creates a new ConnInfoFile which manages contents of a single
// connection parameters file.
func New(p Params) (ConnInfoFile, error) {
	m := module{
		logger:       p.Logger,
		fs:           p.FS,
		fileContents: make(map[string]string),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: m.OnStop,
	})

	return &m, nil
}

func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.infofile != "" && len(m.fileContents) > 0 {
		if err := m.fs.Remove(m.infofile); err != nil {
			return err
		}
	}

	return nil
}

func (m *module) UpdateField(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.infofile == "" {
		return fmt.Errorf("no %q configured", _configKeyInfoFile)
	}

	m.fileContents[key] = value
	jsonOutput, err := json.Marshal(m.fileContents)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := m.fs.WriteFile(m.infofile, jsonOutput); err != nil {
		return fmt.Errorf("creating info file: %w", err)
	}
	m.logger.Infow("connection info saved", zap.String("file", m.infofile), zap.String(key, value))
	return nil
}

func (m *module) Path() string {
	return m.infofile
}

func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyInfoFile)
	if err := val.Populate(&m.infofile); err != nil {
		// incorrectly formatted config
		return fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}

	// An empty path is valid: it selects synchronous attach mode.
	return nil
}
