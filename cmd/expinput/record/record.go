// Unattended trial loop: wait for response, log reaction time, repeat until force quit.
package record

import (
	"context"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/expinput/cmd/expinput/subcmd"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/internal/state"
)

var Mod = subcmd.Mod{Name: "record", Usage: "trial loop until force quit key", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	defer func() { g.Error(g.Close(), "close") }()

	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Infof("record force_quit=%v wait=%+v", g.Keyboard.ForceQuitKeys(), g.Config.DefaultWait())
	err := Loop(g, 0)
	subcmd.SdNotify(daemon.SdNotifyStopping)
	return err
}

// Loop runs trials until force quit, device failure or limit (0=unlimited) trials done.
func Loop(g *state.Global, limit int) error {
	for trial := 1; g.Alive.IsRunning() && (limit == 0 || trial <= limit); trial++ {
		if err := Trial(g, trial); err != nil {
			return err
		}
	}
	return nil
}

// Trial is one listen-wait-report cycle, clicks are reported only for its own session.
func Trial(g *state.Global, trial int) error {
	if err := g.Pointer.ListenClicks(); err != nil {
		return errors.Annotatef(err, "trial=%d pointer listen", trial)
	}
	if err := g.Keyboard.ListenPresses(); err != nil {
		return errors.Annotatef(err, "trial=%d listen", trial)
	}
	w := g.Config.DefaultWait()
	w.Timestamp = true
	if w.MaxWait == input.Forever {
		p, ok, err := g.Keyboard.WaitOnePress(w)
		if err != nil {
			return errors.Annotatef(err, "trial=%d", trial)
		}
		if ok {
			g.Log.Infof("trial=%d key=%s rt=%.6f", trial, p.Key, p.Time.Seconds())
		}
	} else {
		ps, err := g.Keyboard.WaitForPresses(w)
		if err != nil {
			return errors.Annotatef(err, "trial=%d", trial)
		}
		if len(ps) == 0 {
			g.Log.Infof("trial=%d no response", trial)
		}
		for _, p := range ps {
			g.Log.Infof("trial=%d key=%s rt=%.6f", trial, p.Key, p.Time.Seconds())
		}
	}
	cs, err := g.Pointer.GetClicks(input.Query{Timestamp: true})
	if err != nil {
		return errors.Annotatef(err, "trial=%d clicks", trial)
	}
	for _, c := range cs {
		g.Log.Infof("trial=%d click=%s x=%d y=%d t=%.6f", trial, c.Button, c.X, c.Y, c.Time.Seconds())
	}
	return nil
}
