package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/nortreport/internal/logfields"
	"git.home.luguber.info/inful/nortreport/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output      string        `short:"o" help:"Output directory for the generated site" default:"public" type:"path"`
	MetricsFile string        `name:"metrics-file" help:"Rewrite a Prometheus textfile after every rebuild" type:"path"`
	Debounce    time.Duration `help:"Quiet period after the last edit before rebuilding" default:"500ms"`
	Every       time.Duration `help:"Also rebuild at this interval (0 disables)" default:"0s"`
	Cron        string        `help:"Also rebuild on this crontab schedule"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g, root.Config, os.Stdout)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, configPath string, out io.Writer) error {
	logger := g.logger()
	sink := NewMetricsSink(w.MetricsFile)
	rebuild := func(ctx context.Context, reason string) error {
		res, err := RunBuild(ctx, out, logger, configPath, w.Output, sink)
		if err == nil {
			logger.Debug("Rebuild finished", logfields.Reason(reason), logfields.Count(res.Written))
		}
		return err
	}
	runner, err := watch.NewRunner(watch.Options{
		ConfigPath: configPath,
		Debounce:   w.Debounce,
		Every:      w.Every,
		Cron:       w.Cron,
	}, rebuild, logger)
	if err != nil {
		return err
	}
	return runner.Run(ctx)
}
