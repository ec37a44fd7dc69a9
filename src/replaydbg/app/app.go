package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tracekit/replaydbg/src/replaydbg/controller/debugserver"
	"github.com/tracekit/replaydbg/src/replaydbg/controller/diversion"
	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	debuggerclient "github.com/tracekit/replaydbg/src/replaydbg/gateway/debugger-client"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/conninfofile"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/core"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/executor"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/fs"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/launcher"
	"github.com/tracekit/replaydbg/src/replaydbg/repository/checkpoint"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_configKeyEngineDriver = "engine.driver"
	_configKeyMagicAddr    = "server.magicWriteAddr"
)

// Module defines the replaydbg application module.
var Module = fx.Options(
	core.ConfigModule,
	core.LoggerModule,
	fs.Module,
	executor.Module,
	conninfofile.Module,
	launcher.Module,
	fx.Provide(debuggerclient.New),
	fx.Provide(checkpoint.New),
	fx.Provide(diversion.New),
	fx.Provide(debugserver.New),
	fx.Provide(newDriver),
	fx.Provide(func(d engine.Driver) engine.Forker { return d.Forker() }),
	fx.Provide(newMagicWritePolicy),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "replaydbg",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)

// newDriver resolves the configured record/replay backend from the driver
// registry.
func newDriver(cfg config.Provider) (engine.Driver, error) {
	var name string
	if err := cfg.Get(_configKeyEngineDriver).Populate(&name); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyEngineDriver, err)
	}
	if name == "" {
		return nil, fmt.Errorf("missing field %q in config (registered: %v)", _configKeyEngineDriver, engine.Drivers())
	}
	return engine.Open(name)
}

// newMagicWritePolicy builds the side-channel recognition predicate from the
// configured reserved address. The convention is owned by the tooling that
// plants the writes, so it stays configuration, not code.
func newMagicWritePolicy(cfg config.Provider) (entity.MagicWritePolicy, error) {
	var addr uint64
	if err := cfg.Get(_configKeyMagicAddr).Populate(&addr); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyMagicAddr, err)
	}
	if addr == 0 {
		// No reserved address configured: nothing is ever a magic write.
		return func(uint64, []byte) bool { return false }, nil
	}
	return entity.FixedAddrMagicPolicy(addr), nil
}
