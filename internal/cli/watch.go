package cli

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// watchFrameInterval is the terminal refresh rate.
const watchFrameInterval = 33 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var flags sceneFlags

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Show a live layout in the terminal",
		Long: `Watch runs the simulation in the terminal and redraws as it moves.
The graph file is re-read whenever it changes; nodes that survive an edit
keep their positions.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), args[0], g, cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func runWatch(ctx context.Context, path string, g graph.Graph, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The terminal belongs to the view; scene logs are dropped.
	sc, err := scene.New(cfg, scene.WithLogger(log.New(io.Discard)))
	if err != nil {
		return err
	}
	if _, err := sc.Update(ctx, g); err != nil {
		return err
	}

	events := make(chan scene.Event, 16)
	p := tea.NewProgram(NewViewModel(path, events), tea.WithAltScreen(), tea.WithContext(ctx))

	ticker := time.NewTicker(watchFrameInterval)
	defer ticker.Stop()
	go sc.Run(ctx, ticker.C, events, func(f render.Frame) error {
		p.Send(frameMsg(f))
		return nil
	})
	go watchGraph(ctx, path,
		func(g graph.Graph) {
			select {
			case events <- reloadEvent(g, p.Send):
			case <-ctx.Done():
			}
		},
		func(err error) { p.Send(errMsg{err}) },
	)

	_, err = p.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
