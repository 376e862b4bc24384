// Package sequence runs presentation scripts. A script is parsed into frame
// indexed steps and played back one frame per tick by a Player.
package sequence

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedScript is returned when any line of a script is malformed.
// The whole script is discarded, never a partial one.
var ErrMalformedScript = errors.New("malformed presentation script")

// Step is one parsed instruction: "<frame>|<Action>|<p1,p2,...>"
type Step struct {
	Frame  int
	Action string
	Params []string
}

// Script is a parsed presentation script
type Script struct {
	Name  string
	Steps []Step
}

// LastFrame returns the highest frame used, or -1 for an empty script
func (s *Script) LastFrame() int {
	last := -1
	for _, st := range s.Steps {
		if st.Frame > last {
			last = st.Frame
		}
	}
	return last
}

// Parse reads a script. Blank lines are ignored. A line with other than two or
// three fields, a bad frame or an empty action yields an empty script and
// ErrMalformedScript.
func Parse(name, src string) (*Script, error) {
	script := &Script{Name: name}

	var steps []Step
	scanner := bufio.NewScanner(strings.NewReader(src))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		step, err := parseLine(text)
		if err != nil {
			return script, fmt.Errorf("%w: %s line %d: %v", ErrMalformedScript, name, line, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return script, fmt.Errorf("%w: %s: %v", ErrMalformedScript, name, err)
	}

	script.Steps = steps
	return script, nil
}

func parseLine(text string) (Step, error) {
	fields := strings.Split(text, "|")
	if len(fields) != 2 && len(fields) != 3 {
		return Step{}, fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}

	frame, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || frame < 0 {
		return Step{}, fmt.Errorf("invalid frame %q", fields[0])
	}

	action := strings.TrimSpace(fields[1])
	if action == "" {
		return Step{}, errors.New("missing action")
	}

	step := Step{Frame: frame, Action: action}
	if len(fields) == 3 && strings.TrimSpace(fields[2]) != "" {
		for _, p := range strings.Split(fields[2], ",") {
			step.Params = append(step.Params, strings.TrimSpace(p))
		}
	}

	return step, nil
}
