package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/capture"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/engine"
	"github.com/specialistvlad/fxgraph/internal/executor"
	"github.com/specialistvlad/fxgraph/internal/fsutil"
	"github.com/specialistvlad/fxgraph/internal/preview"
	"github.com/specialistvlad/fxgraph/internal/project"
	"github.com/specialistvlad/fxgraph/internal/recent"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/watch"
)

// Run executes the main application logic based on the app's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startHealthcheckServer()
	defer a.closeHealthcheckServer(ctx)

	path, err := fsutil.ResolveFile(a.config.ProjectPath, project.Extension)
	if err != nil {
		return fmt.Errorf("failed to locate project: %w", err)
	}

	sinks, closeSinks, err := a.sinks(ctx)
	if err != nil {
		return err
	}
	defer closeSinks()

	if err := a.render(ctx, path, sinks); err != nil {
		return err
	}
	if !a.config.Watch {
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	w, err := watch.New(path, watch.Options{Debounce: a.config.WatchDebounce})
	if err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}
	defer w.Close()
	a.logger.Info("👀 Watching project for changes.", "path", w.Path())
	return w.Run(ctx, func(ctx context.Context) error {
		return a.render(ctx, path, sinks)
	})
}

// sinks builds the frame sinks. A preview server that cannot be reached is
// reported and skipped.
func (a *App) sinks(ctx context.Context) ([]capture.Sink, func(), error) {
	format, err := capture.ParseFormat(a.config.Format)
	if err != nil {
		return nil, nil, err
	}
	files, err := capture.NewFileSink(a.config.OutDir, format)
	if err != nil {
		return nil, nil, err
	}
	sinks := []capture.Sink{files, a.metrics}
	closer := func() {}

	if a.config.PreviewURL != "" {
		pub, err := preview.Dial(ctx, preview.Options{URL: a.config.PreviewURL})
		if err != nil {
			a.logger.Warn("Preview server unavailable, continuing without it.", "url", a.config.PreviewURL, "error", err)
		} else {
			sinks = append(sinks, pub)
			closer = pub.Close
		}
	}
	return sinks, closer, nil
}

// render loads the project and exports the configured frames once.
func (a *App) render(ctx context.Context, path string, sinks []capture.Sink) error {
	p, err := project.Load(ctx, path, a.registry)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	a.logger.Info("Project loaded.", "project", p.Name, "nodes", len(p.Graph.Nodes()), "frames", p.Timeline.TotalFrames()+1)
	a.remember(p)

	eng := engine.New(p.Graph, p.Timeline, render.NewSoftware(),
		executor.WithObserver(a.metrics),
		executor.WithSize(p.Width, p.Height),
	)
	defer eng.Close()

	a.logger.Info("🚀 Rendering frames...", "out", a.config.OutDir)
	rep, err := capture.Run(ctx, eng, a.config.captureOptions(), sinks...)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	a.logger.Info("🏁 Render finished.", "frames", rep.Frames, "elapsed", rep.Elapsed)
	return nil
}

// remember records p in the recent-projects file. Failures only warn.
func (a *App) remember(p *project.Project) {
	if a.config.RecentFile == "" {
		return
	}
	list, err := recent.Load(a.config.RecentFile)
	if err != nil {
		a.logger.Warn("Recent projects list unreadable.", "error", err)
		return
	}
	list.Add(p.Path, p.Name)
	if err := list.Save(); err != nil {
		a.logger.Warn("Recent projects list not saved.", "error", err)
	}
}
