package state

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	hwinput "github.com/temoto/expinput/hardware/input"
	"github.com/temoto/expinput/helpers"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/internal/recorder"
	"github.com/temoto/expinput/log2"
	gpio "github.com/temoto/gpio-cdev-go"
)

// Global is explicit run context: clock, correction registry, recorder and monitors.
type Global struct {
	Alive    *alive.Alive
	Config   *Config
	Clock    clock.Clock
	Registry *clock.Registry
	Recorder input.Recorder
	Log      *log2.Log
	Hardware struct {
		Input       *hwinput.Dispatch
		ResponseBox *hwinput.ResponseBox
		// test code sets this to stub GPIO chip
		OpenChip func(path string) (gpio.Chiper, error)
		// device time reference, default CLOCK_REALTIME of kernel input events
		Timebase clock.Timebase
	}
	Keyboard *input.Keyboard
	Pointer  *input.Pointer

	queue *recorder.Queue
	// test code sets this to stub recorder transport
	transport recorder.Transporter
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error state.NewContext() log=nil")
	}
	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	ctx := context.WithValue(context.Background(), ContextKey, g)
	return ctx, g
}

// Env for constructing more monitors on same clock.
func (g *Global) Env() input.Env {
	return input.Env{
		Clock:    g.Clock,
		Registry: g.Registry,
		Recorder: g.Recorder,
		Log:      g.Log,
	}
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	if cfg.LogDebug {
		g.Log.SetLevel(log2.LDebug)
	}
	// test code may set Clock
	if g.Clock == nil {
		g.Clock = clock.NewSystem()
	}
	g.Registry = clock.NewRegistry(g.Clock)

	if err := g.initRecorder(); err != nil {
		return errors.Annotate(err, "recorder init")
	}
	if err := g.initInput(); err != nil {
		return errors.Annotate(err, "input init")
	}

	var err error
	g.Keyboard, err = input.NewKeyboard(g.Env(), g.Hardware.Input, cfg.ForceQuitKeys())
	if err != nil {
		return errors.Annotate(err, "keyboard")
	}
	g.Pointer, err = input.NewPointer(g.Env(), g.Hardware.Input, g.Keyboard, cfg.Input.Pointer.Visible)
	if err != nil {
		return errors.Annotate(err, "pointer")
	}
	cs, err := g.Corrections()
	if err != nil {
		return err
	}
	for _, kind := range g.Registry.Kinds() {
		g.Log.Debugf("time correction kind=%s correction=%s", kind, cs[kind])
	}
	return nil
}

// Corrections samples current time correction of every registered kind.
func (g *Global) Corrections() (map[string]time.Duration, error) {
	kinds := g.Registry.Kinds()
	m := make(map[string]time.Duration, len(kinds))
	for _, kind := range kinds {
		c, err := g.Registry.Correction(kind)
		if err != nil {
			return nil, errors.Annotate(err, "time correction")
		}
		m[kind] = c
	}
	return m, nil
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
	}
}

// RecorderStat is zero when persistent recorder is disabled.
func (g *Global) RecorderStat() recorder.Stat {
	if g.queue == nil {
		return recorder.Stat{}
	}
	return g.queue.Stat()
}

// Close stops device readers and flushes recorder queue to disk.
func (g *Global) Close() error {
	g.Alive.Stop()
	closers := make([]io.Closer, 0, 3)
	if g.Hardware.Input != nil {
		closers = append(closers, closerFunc(g.Hardware.Input.Stop))
	}
	if g.Hardware.ResponseBox != nil {
		closers = append(closers, g.Hardware.ResponseBox)
	}
	if g.queue != nil {
		closers = append(closers, g.queue)
	}
	errs := make([]error, len(closers))
	for i, c := range closers {
		errs[i] = c.Close()
	}
	return helpers.FoldErrors(errs)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (g *Global) initRecorder() error {
	rs := make(recorder.Multi, 0, 2)
	if g.Config.Record.LogEvents {
		rs = append(rs, &recorder.Log{L: g.Log})
	}
	if g.Config.Record.Enabled {
		rcfg := g.Config.Record
		if rcfg.PersistPath == "" {
			rcfg.PersistPath = g.Config.persistPath("record")
		}
		rlog := g.Log.Clone(log2.LInfo)
		q, err := recorder.NewQueue(rlog, rcfg, g.transport)
		if err != nil {
			return err
		}
		g.queue = q
		rs = append(rs, q)
	}
	switch len(rs) {
	case 0:
		g.Recorder = input.NopRecorder{}
	case 1:
		g.Recorder = rs[0]
	default:
		g.Recorder = rs
	}
	return nil
}

func (g *Global) initInput() error {
	cfg := &g.Config.Input
	keymap := hwinput.NewKeymap()
	d := hwinput.NewDispatch(g.Log, keymap, cfg.Pointer.Width, cfg.Pointer.Height)
	if g.Hardware.Timebase != nil {
		d.SetTimebase(g.Hardware.Timebase)
	}
	g.Hardware.Input = d

	sources := make([]hwinput.Source, 0, 4)
	if cfg.Keyboard.Enable {
		src, err := hwinput.NewDevInputEventSource(cfg.Keyboard.Device)
		if err != nil {
			return errors.Annotatef(err, "config: input.keyboard.device=%s", cfg.Keyboard.Device)
		}
		sources = append(sources, src)
	}
	if cfg.Pointer.Enable && cfg.Pointer.Device != cfg.Keyboard.Device {
		src, err := hwinput.NewDevInputEventSource(cfg.Pointer.Device)
		if err != nil {
			closeSources(sources)
			return errors.Annotatef(err, "config: input.pointer.device=%s", cfg.Pointer.Device)
		}
		sources = append(sources, src)
	}
	if cfg.ResponseBox.Enable {
		open := g.Hardware.OpenChip
		if open == nil {
			open = func(path string) (gpio.Chiper, error) { return gpio.Open(path, "expinput") }
		}
		chip, err := open(cfg.ResponseBox.Chip)
		if err != nil {
			closeSources(sources)
			return errors.Annotatef(err, "config: input.response_box.chip=%s", cfg.ResponseBox.Chip)
		}
		box, err := hwinput.OpenResponseBox(chip, keymap, cfg.ResponseBox.ActiveLow, g.Config.Buttons())
		if err != nil {
			closeSources(sources)
			return err
		}
		g.Hardware.ResponseBox = box
		sources = append(sources, box.Sources...)
	}
	g.Log.Debugf("input sources=%d %s", len(sources), keymap.String())
	d.Run(sources)
	return nil
}

func closeSources(ss []hwinput.Source) {
	for _, s := range ss {
		_ = s.Close()
	}
}
