// Package launcher implements the standalone "launch remote client" entry
// point: it waits for the server to publish connection parameters, then
// starts the debugger client process pointed at the published endpoint.
package launcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/conninfofile"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/executor"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyCommand     = "client.command"
	_configKeyArgs        = "client.args"
	_configKeyWaitTimeout = "client.waitTimeoutSeconds"

	_defaultWaitTimeout = 60 * time.Second

	// Placeholders substituted into the configured client args.
	_placeholderAddress  = "{address}"
	_placeholderTraceDir = "{trace-dir}"
)

// Module is the Fx module for this package.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func() clock.Clock { return clock.New() }),
)

// Launcher starts the remote debugger client from published connection
// parameters.
type Launcher interface {
	// LaunchClient waits until the parameters file at paramsPath exists,
	// reads it, and starts the configured client command.
	LaunchClient(ctx context.Context, paramsPath string) error
}

type launcher struct {
	command     string
	args        []string
	waitTimeout time.Duration

	logger   *zap.SugaredLogger
	fs       fs.ReplayFS
	executor executor.Executor
	clock    clock.Clock
}

// Params define values to be used by Launcher.
type Params struct {
	fx.In

	Config   config.Provider
	Logger   *zap.SugaredLogger
	FS       fs.ReplayFS
	Executor executor.Executor
	Clock    clock.Clock
}

// New creates a new Launcher.
func New(p Params) (Launcher, error) {
	l := launcher{
		logger:      p.Logger,
		fs:          p.FS,
		executor:    p.Executor,
		clock:       p.Clock,
		waitTimeout: _defaultWaitTimeout,
	}

	if err := p.Config.Get(_configKeyCommand).Populate(&l.command); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyCommand, err)
	}
	if l.command == "" {
		return nil, fmt.Errorf("missing field %q in config", _configKeyCommand)
	}
	if err := p.Config.Get(_configKeyArgs).Populate(&l.args); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyArgs, err)
	}

	var timeoutSeconds int64
	if err := p.Config.Get(_configKeyWaitTimeout).Populate(&timeoutSeconds); err == nil && timeoutSeconds > 0 {
		l.waitTimeout = time.Duration(timeoutSeconds) * time.Second
	}

	return &l, nil
}

// LaunchClient waits for paramsPath and execs the configured client.
func (l *launcher) LaunchClient(ctx context.Context, paramsPath string) error {
	if err := l.awaitParamsFile(ctx, paramsPath); err != nil {
		return err
	}

	raw, err := l.fs.ReadFile(paramsPath)
	if err != nil {
		return fmt.Errorf("reading connection parameters: %w", err)
	}

	var params map[string]string
	if err := json.Unmarshal(raw, &params); err != nil {
		return fmt.Errorf("decoding connection parameters: %w", err)
	}

	addr, ok := params[conninfofile.FieldAddress]
	if !ok || addr == "" {
		return fmt.Errorf("connection parameters missing %q", conninfofile.FieldAddress)
	}

	args := make([]string, len(l.args))
	for i, a := range l.args {
		a = strings.ReplaceAll(a, _placeholderAddress, addr)
		a = strings.ReplaceAll(a, _placeholderTraceDir, params[conninfofile.FieldTraceDir])
		args[i] = a
	}

	l.logger.Infow("launching debugger client",
		zap.String("command", l.command), zap.String("address", addr))
	cmd := exec.Command(l.command, args...)
	return l.executor.RunCommand(cmd, nil)
}

// awaitParamsFile blocks until the parameters file exists, watching its
// directory for creation. The watch is set up before the existence check to
// avoid missing a write that lands between the two.
func (l *launcher) awaitParamsFile(ctx context.Context, paramsPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(paramsPath)); err != nil {
		return fmt.Errorf("watching %q: %w", filepath.Dir(paramsPath), err)
	}

	exists, err := l.fs.FileExists(paramsPath)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	timeout := l.clock.Timer(l.waitTimeout)
	defer timeout.Stop()

	for {
		select {
		case ev := <-watcher.Events:
			if ev.Name == paramsPath && ev.Op.Has(fsnotify.Create|fsnotify.Write) {
				return nil
			}
		case err := <-watcher.Errors:
			return fmt.Errorf("watching for connection parameters: %w", err)
		case <-timeout.C:
			return fmt.Errorf("timed out after %v waiting for %q", l.waitTimeout, paramsPath)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
