package scene

import (
	"context"
	"time"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// Sink receives finished frames from [Scene.Run]. A sink error ends the loop.
type Sink func(render.Frame) error

// Event is a state change applied by the goroutine running [Scene.Run].
type Event func(ctx context.Context, s *Scene) error

// UpdateEvent reconciles the scene with g.
func UpdateEvent(g graph.Graph) Event {
	return func(ctx context.Context, s *Scene) error {
		_, err := s.Update(ctx, g)
		return err
	}
}

// DragStartEvent starts dragging node id.
func DragStartEvent(id string) Event {
	return func(_ context.Context, s *Scene) error { return s.DragStart(id) }
}

// DragMoveEvent moves node id by a screen-space delta.
func DragMoveEvent(id string, dx, dy float64) Event {
	return func(_ context.Context, s *Scene) error { return s.DragMove(id, dx, dy) }
}

// DragEndEvent releases node id.
func DragEndEvent(id string) Event {
	return func(_ context.Context, s *Scene) error { return s.DragEnd(id) }
}

// ZoomEvent scales the view by factor.
func ZoomEvent(factor float64) Event {
	return func(_ context.Context, s *Scene) error {
		s.ZoomBy(factor)
		return nil
	}
}

// TransformEvent replaces the pan and zoom state.
func TransformEvent(t Transform) Event {
	return func(_ context.Context, s *Scene) error {
		s.SetTransform(t)
		return nil
	}
}

// ResetZoomEvent restores the identity transform.
func ResetZoomEvent() Event {
	return func(_ context.Context, s *Scene) error {
		s.ResetZoom()
		return nil
	}
}

// FocusEvent centres the view on node id; an empty id clears the focus.
func FocusEvent(id string) Event {
	return func(_ context.Context, s *Scene) error {
		if id == "" {
			s.Unfocus()
			return nil
		}
		return s.Focus(id)
	}
}

// WithReply wraps ev so its result is sent on reply. reply should be
// buffered; the loop does not wait for a receiver.
func WithReply(ev Event, reply chan<- error) Event {
	return func(ctx context.Context, s *Scene) error {
		err := ev(ctx, s)
		select {
		case reply <- err:
		default:
		}
		return err
	}
}

// Run drives the scene until ctx is done, frames is closed, or sink fails.
//
// Each value on frames ticks the simulation and, when a re-render is due,
// builds a frame and passes it to sink. Events are applied between frames in
// the order received. Event errors and aborted render passes are logged and
// do not stop the loop.
func (s *Scene) Run(ctx context.Context, frames <-chan time.Time, events <-chan Event, sink Sink) error {
	s.logger.Info("scene running", "static", s.cfg.Static())
	defer s.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := ev(ctx, s); err != nil {
				s.logger.Warn("event rejected", "error", err)
			}

		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if !s.Tick(ctx) {
				continue
			}
			f, err := s.Frame(ctx)
			if err != nil {
				s.logger.Error("render pass aborted", "error", err)
				continue
			}
			if err := sink(f); err != nil {
				return err
			}
		}
	}
}
