package sequence

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/KirkDiggler/battle-engine/internal/events"
)

// Handler performs one script action
type Handler func(params []string) error

// Actions maps action keywords to handlers
type Actions map[string]Handler

// Dispatch runs the handler for st. Unknown keywords and handler errors are
// logged and skipped.
func (a Actions) Dispatch(st Step) {
	h, ok := a[st.Action]
	if !ok {
		log.Printf("[SEQUENCE] unknown action %q at frame %d", st.Action, st.Frame)
		return
	}
	if err := h(st.Params); err != nil {
		log.Printf("[SEQUENCE] %s at frame %d: %v", st.Action, st.Frame, err)
	}
}

// DefaultActions publishes every built-in keyword on the presentation topics of bus
func DefaultActions(bus *events.Bus) Actions {
	return Actions{
		"Narrate": func(p []string) error {
			// narration may itself contain commas
			return events.Publish(bus, events.Narration, strings.Join(p, ", "))
		},
		"Animate": func(p []string) error {
			if len(p) < 1 {
				return fmt.Errorf("expected animation name")
			}
			anim := events.Animation{Name: p[0]}
			if len(p) > 1 {
				anim.Target = p[1]
			}
			return events.Publish(bus, events.Animations, anim)
		},
		"Sound": func(p []string) error {
			if len(p) != 1 {
				return fmt.Errorf("expected 1 param, got %d", len(p))
			}
			return events.Publish(bus, events.Sounds, p[0])
		},
		"Shake": func(p []string) error {
			v, err := floats(p, 2)
			if err != nil {
				return err
			}
			return events.Publish(bus, events.CameraShake, events.Vec2{X: v[0], Y: v[1]})
		},
		"Move": func(p []string) error {
			v, err := floats(p, 3)
			if err != nil {
				return err
			}
			return events.Publish(bus, events.Movement, events.Vec3{X: v[0], Y: v[1], Z: v[2]})
		},
		"Popup": func(p []string) error {
			if len(p) != 1 {
				return fmt.Errorf("expected 1 param, got %d", len(p))
			}
			n, err := strconv.Atoi(p[0])
			if err != nil {
				return err
			}
			return events.Publish(bus, events.Popups, n)
		},
		"Flash": func(p []string) error {
			on := true
			if len(p) > 0 {
				v, err := strconv.ParseBool(p[0])
				if err != nil {
					return err
				}
				on = v
			}
			return events.Publish(bus, events.Flash, on)
		},
		"ShowUI": uiCall(bus, true),
		"HideUI": uiCall(bus, false),
	}
}

func uiCall(bus *events.Bus, open bool) Handler {
	return func(p []string) error {
		if len(p) != 1 {
			return fmt.Errorf("expected 1 param, got %d", len(p))
		}
		return events.Publish(bus, events.UI, events.UICall{Name: p[0], Open: open})
	}
}

func floats(p []string, n int) ([]float64, error) {
	if len(p) != n {
		return nil, fmt.Errorf("expected %d params, got %d", n, len(p))
	}
	out := make([]float64, n)
	for i, s := range p {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
