// Interactive console for rig checks: inject input, listen, wait, inspect.
package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/expinput/cmd/expinput/subcmd"
	hwinput "github.com/temoto/expinput/hardware/input"
	"github.com/temoto/expinput/helpers"
	"github.com/temoto/expinput/helpers/cli"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/internal/state"
)

const usage = `syntax: command arguments separated by whitespace
- listen                      start keyboard and pointer sessions
- press SYMBOL [DELAY_MS]     inject key press, e.g. press A 300
- emulate CODE [DELAY_MS]     inject emulated press, key is decimal code
- click BUTTON [DELAY_MS]     inject pointer press: left middle right
- get                         snapshot presses and clicks since listen
- wait1 MAX_SEC [KEY...]      wait one press, MAX_SEC=0 forever
- waitn MAX_SEC [MIN_SEC]     collect presses for MAX_SEC
- quit                        check force quit keys
- stat                        time corrections, recorder counters
`

var Mod = subcmd.Mod{Name: "console", Usage: "interactive commands, see help", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	defer func() { g.Error(g.Close(), "close") }()

	cli.MainLoop("expinput-console", newExecutor(g), newCompleter())
	return nil
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	suggests := make([]prompt.Suggest, 0, len(names))
	for _, name := range names {
		suggests = append(suggests, prompt.Suggest{Text: name})
	}
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}

func newExecutor(g *state.Global) func(string) {
	return func(line string) {
		out, err := Exec(g, line)
		if out != "" {
			fmt.Println(out)
		}
		if err != nil {
			g.Log.Errorf(errors.ErrorStack(err))
		}
		if input.IsForceQuit(err) {
			g.Alive.Stop()
		}
	}
}

type command func(g *state.Global, args []string) (string, error)

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    func(*state.Global, []string) (string, error) { return usage, nil },
		"listen":  cmdListen,
		"press":   cmdPress,
		"emulate": cmdEmulate,
		"click":   cmdClick,
		"get":     cmdGet,
		"wait1":   cmdWaitOne,
		"waitn":   cmdWaitMany,
		"quit":    cmdQuit,
		"stat":    cmdStat,
	}
}

// Exec runs one console line, empty line is no-op.
func Exec(g *state.Global, line string) (string, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return "", nil
	}
	cmd, ok := commands[words[0]]
	if !ok {
		return "", errors.NotFoundf("command=%s (try help)", words[0])
	}
	return cmd(g, words[1:])
}

func cmdListen(g *state.Global, args []string) (string, error) {
	if err := g.Keyboard.ListenPresses(); err != nil {
		return "", err
	}
	if err := g.Pointer.ListenClicks(); err != nil {
		return "", err
	}
	return "listening", nil
}

func cmdPress(g *state.Global, args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.NotValidf("press requires SYMBOL")
	}
	code := g.Hardware.Input.Keymap.Add(args[0])
	return emitAfter(g, hwinput.Event{Kind: hwinput.EventKey, Code: code}, args[1:])
}

func cmdEmulate(g *state.Global, args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.NotValidf("emulate requires CODE")
	}
	code, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return "", errors.NotValidf("emulate code=%s", args[0])
	}
	return emitAfter(g, hwinput.Event{Kind: hwinput.EventKey, Code: uint32(code), Emulated: true}, args[1:])
}

func cmdClick(g *state.Global, args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.NotValidf("click requires BUTTON")
	}
	var b input.Button
	switch args[0] {
	case "left":
		b = input.ButtonLeft
	case "middle":
		b = input.ButtonMiddle
	case "right":
		b = input.ButtonRight
	default:
		return "", errors.NotValidf("click button=%s", args[0])
	}
	return emitAfter(g, hwinput.Event{Kind: hwinput.EventButton, Button: b}, args[1:])
}

func emitAfter(g *state.Global, e hwinput.Event, args []string) (string, error) {
	e.Source = "console"
	if len(args) == 0 {
		g.Hardware.Input.Emit(e)
		return "", nil
	}
	ms, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return "", errors.NotValidf("delay=%s", args[0])
	}
	time.AfterFunc(time.Duration(ms)*time.Millisecond, func() { g.Hardware.Input.Emit(e) })
	return fmt.Sprintf("scheduled in %dms", ms), nil
}

func cmdGet(g *state.Global, args []string) (string, error) {
	q := input.Query{Timestamp: true}
	ps, err := g.Keyboard.GetPresses(q)
	if err != nil {
		return "", err
	}
	cs, err := g.Pointer.GetClicks(q)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("presses=%v clicks=%v", ps, cs), nil
}

func parseWait(args []string) (input.Wait, []string, error) {
	w := input.Wait{Query: input.Query{Timestamp: true}}
	if len(args) < 1 {
		return w, nil, errors.NotValidf("wait requires MAX_SEC")
	}
	maxSec, err := strconv.ParseFloat(args[0], 64)
	if err != nil || maxSec < 0 {
		return w, nil, errors.NotValidf("wait max=%s", args[0])
	}
	w.MaxWait = helpers.FloatSecondDefault(maxSec, input.Forever)
	return w, args[1:], nil
}

func cmdWaitOne(g *state.Global, args []string) (string, error) {
	w, keys, err := parseWait(args)
	if err != nil {
		return "", err
	}
	if len(keys) != 0 {
		w.Live = input.Only(keys...)
	}
	p, ok, err := g.Keyboard.WaitOnePress(w)
	if err != nil {
		return "", err
	}
	if !ok {
		return "timeout", nil
	}
	return p.String(), nil
}

func cmdWaitMany(g *state.Global, args []string) (string, error) {
	w, rest, err := parseWait(args)
	if err != nil {
		return "", err
	}
	if w.MaxWait == input.Forever {
		return "", errors.NotValidf("waitn max=0")
	}
	if len(rest) != 0 {
		minSec, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return "", errors.NotValidf("waitn min=%s", rest[0])
		}
		w.MinWait = helpers.FloatSecondDefault(minSec, 0)
	}
	ps, err := g.Keyboard.WaitForPresses(w)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("presses=%v", ps), nil
}

func cmdQuit(g *state.Global, args []string) (string, error) {
	if err := g.Keyboard.CheckForceQuit(nil); err != nil {
		return "", err
	}
	return "no force quit keys pressed", nil
}

func cmdStat(g *state.Global, args []string) (string, error) {
	cs, err := g.Corrections()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, kind := range g.Registry.Kinds() {
		fmt.Fprintf(&b, "correction %s=%v\n", kind, cs[kind])
	}
	fmt.Fprintf(&b, "recorder %+v", g.RecorderStat())
	return b.String(), nil
}
