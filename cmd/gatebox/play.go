package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"golang.org/x/term"

	"github.com/cwbudde/algo-gate/internal/hostsim"
	"github.com/cwbudde/algo-gate/internal/meter"
	"github.com/cwbudde/algo-gate/internal/midisync"
	"github.com/cwbudde/algo-gate/internal/playback"
	"github.com/cwbudde/algo-gate/internal/session"
	"github.com/cwbudde/algo-gate/internal/wavio"
)

var playFlags struct {
	source    sourceFlags
	input     string
	loopBeats float64
	latency   time.Duration
	midiIn    string
	ccMap     string
	ccChannel int
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the gate live through the default audio output",
	Long: `Play runs the gate in real time over a looped WAV file (--input) or a
generated oscillator.

Without --midi-in the gate follows a simulated host transport at --bpm.
With --midi-in it follows the port's MIDI clock, start, stop and song
position messages, and control changes drive the parameters (--cc-map,
default CC 102 onwards in parameter order).

On a terminal a live meter shows the step position and levels; keys
change the pattern, rate, depth and bypass.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI input ports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		defer gomidi.CloseDriver()
		ports := midisync.Ports()
		if len(ports) == 0 {
			fmt.Println("no MIDI input ports")
			return
		}
		for _, p := range ports {
			fmt.Println(p)
		}
	},
}

func init() {
	fs := playCmd.Flags()
	playFlags.source.register(fs, false)
	fs.StringVarP(&playFlags.input, "input", "i", "", "WAV file to loop as input")
	fs.Float64Var(&playFlags.loopBeats, "loop", 0, "loop the simulated transport every n beats (0 disables)")
	fs.DurationVar(&playFlags.latency, "latency", 50*time.Millisecond, "audio device buffer length")
	fs.StringVar(&playFlags.midiIn, "midi-in", "", "MIDI input port to sync to")
	fs.StringVar(&playFlags.ccMap, "cc-map", "", `control change routes, e.g. "depth=1,mix=11"`)
	fs.IntVar(&playFlags.ccChannel, "cc-channel", -1, "MIDI channel for control changes (0-15, -1 for all)")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(portsCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	store, err := loadStore(cmd.Flags())
	if err != nil {
		return err
	}

	sampleRate := math.Round(opts.sampleRate)
	var input session.Input
	if playFlags.input != "" {
		buf, sr, err := wavio.Read(playFlags.input)
		if err != nil {
			return err
		}
		loop, err := session.NewLoopInput(buf)
		if err != nil {
			return err
		}
		input, sampleRate = loop, float64(sr)
	}

	cfg, err := processorConfig(sampleRate)
	if err != nil {
		return err
	}
	if input == nil {
		osc, err := playFlags.source.oscillator(cfg)
		if err != nil {
			return err
		}
		input = session.NewOscillatorInput(osc)
	}

	var (
		clock  session.Clock
		status func() string
	)
	if playFlags.midiIn != "" {
		defer gomidi.CloseDriver()

		mc, err := midisync.NewClock(cfg.SampleRate, opts.bpm)
		if err != nil {
			return err
		}
		ccs := midisync.DefaultCCMap()
		if playFlags.ccMap != "" {
			if ccs, err = midisync.ParseCCMap(playFlags.ccMap, playFlags.ccChannel); err != nil {
				return err
			}
		}
		logger.Debug("cc routes", "map", ccs.String())

		stop, err := midisync.Listen(playFlags.midiIn, mc, ccs, store, func(msg gomidi.Message) {
			logger.Debug("midi message ignored", "msg", msg.String())
		})
		if err != nil {
			return err
		}
		defer stop()

		clock = mc
		status = func() string {
			state := "stopped"
			if mc.Running() {
				state = "running"
			}
			return fmt.Sprintf("MIDI %s  %.1f BPM  %s", playFlags.midiIn, mc.Tempo(), state)
		}
	} else {
		host, err := hostsim.New(cfg.SampleRate, opts.bpm)
		if err != nil {
			return err
		}
		if playFlags.loopBeats > 0 {
			if err := host.SetLoop(0, playFlags.loopBeats); err != nil {
				return err
			}
		}
		host.Play()

		clock = host
		status = func() string { return fmt.Sprintf("Host %.1f BPM", opts.bpm) }
	}

	sess, err := session.New(cfg, store, clock, input, processorOptions()...)
	if err != nil {
		return err
	}

	player, err := playback.NewPlayer(int(cfg.SampleRate), playFlags.latency)
	if err != nil {
		return err
	}
	defer closeLogged(player, "audio output")
	player.Start(sess)
	logger.Info("playing", "sampleRate", cfg.SampleRate, "blockSize", cfg.BlockSize)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		m := meter.New(sess.Visualizer(), store, "gatebox", status)
		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("meter: %w", err)
		}
	} else {
		waitForSignal(sess, status)
	}

	player.Stop()
	return saveStore(store)
}

// closeLogged closes c and logs a failure at debug level.
func closeLogged(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		logger.Debug("close failed", "what", what, "err", err)
	}
}

// waitForSignal blocks until interrupted, logging the gate state once a
// second at debug level.
func waitForSignal(sess *session.Session, status func() string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := sess.Visualizer().Snapshot()
			logger.Debug("gate",
				"step", snap.CurrentStep,
				"gate", fmt.Sprintf("%.3f", snap.GateLevel),
				"output", formatDB(snap.OutputLevel),
				"status", status(),
			)
		}
	}
}
