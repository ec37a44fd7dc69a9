package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/tracekit/replaydbg/src/replaydbg/app"
	"github.com/tracekit/replaydbg/src/replaydbg/controller/debugserver"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/launcher"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var cli struct {
	Serve        serveCmd        `cmd:"" help:"Serve the replay of a recorded trace to a remote debugger."`
	LaunchClient launchClientCmd `cmd:"" name:"launch-client" help:"Launch the debugger client from published connection parameters."`
	Emergency    emergencyCmd    `cmd:"" help:"Open a debugger connection immediately for last-resort diagnostics."`
}

type serveCmd struct {
	TraceDir    string `arg:"" help:"Recorded trace directory."`
	Pid         int    `help:"Recorded process to debug (0 = first process)." default:"0"`
	RequireExec bool   `help:"Wait for the target process to exec before attaching." default:"true" negatable:""`
	Event       uint64 `help:"Wait until this many events have elapsed before attaching." default:"0"`
}

func (c *serveCmd) Run() error {
	run := debugserver.RunConfig{
		TraceDir: c.TraceDir,
		Target: entity.Target{
			Pid:         c.Pid,
			RequireExec: c.RequireExec,
			Event:       c.Event,
		},
	}
	fx.New(
		app.Module,
		fx.Supply(run),
		fx.Invoke(runServe),
	).Run()
	return nil
}

func runServe(lc fx.Lifecycle, sd fx.Shutdowner, ctrl debugserver.Controller, logger *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := ctrl.Serve(context.Background()); err != nil {
					logger.Errorw("serve failed", zap.Error(err))
				}
				sd.Shutdown()
			}()
			return nil
		},
	})
}

type launchClientCmd struct {
	ParamsFile string `arg:"" help:"Connection parameters file written by the server."`
}

func (c *launchClientCmd) Run() error {
	fx.New(
		app.Module,
		fx.Supply(debugserver.RunConfig{}),
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, l launcher.Launcher, logger *zap.SugaredLogger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						if err := l.LaunchClient(context.Background(), c.ParamsFile); err != nil {
							logger.Errorw("launching client failed", zap.Error(err))
						}
						sd.Shutdown()
					}()
					return nil
				},
			})
		}),
	).Run()
	return nil
}

type emergencyCmd struct {
	TraceDir string `arg:"" help:"Recorded trace directory."`
}

func (c *emergencyCmd) Run() error {
	fx.New(
		app.Module,
		fx.Supply(debugserver.RunConfig{TraceDir: c.TraceDir, Target: entity.NewTarget()}),
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, ctrl debugserver.Controller, logger *zap.SugaredLogger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						if err := ctrl.EmergencyDebug(context.Background(), nil); err != nil {
							logger.Errorw("emergency debug failed", zap.Error(err))
						}
						sd.Shutdown()
					}()
					return nil
				},
			})
		}),
	).Run()
	return nil
}

func main() {
	ktx := kong.Parse(&cli,
		kong.Name("replaydbg"),
		kong.Description("Interactive debugger front-end for recorded executions."),
		kong.UsageOnError(),
	)
	ktx.FatalIfErrorf(ktx.Run())
}
