package midisync

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// Ports lists the names of the available MIDI inputs. A driver must be
// registered by the importing program.
func Ports() []string {
	ins := gomidi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

// Listen opens the input port named port and feeds clock and control change
// messages to clock and ccs. Either may be nil. unhandled, if non-nil,
// receives every other message. The returned function stops listening.
func Listen(port string, clock *Clock, ccs *CCMap, store *param.Store, unhandled func(gomidi.Message)) (stop func(), err error) {
	in, err := gomidi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("midisync: find input %q: %w", port, err)
	}

	start := time.Now()
	stop, err = gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		if clock != nil && clock.Handle(msg, time.Since(start)) {
			return
		}
		if ccs != nil && store != nil && ccs.Handle(msg, store) {
			return
		}
		if unhandled != nil {
			unhandled(msg)
		}
	}, gomidi.UseTimeCode())
	if err != nil {
		return nil, fmt.Errorf("midisync: listen on %q: %w", port, err)
	}
	return stop, nil
}
