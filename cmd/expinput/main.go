package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/expinput/cmd/expinput/console"
	"github.com/temoto/expinput/cmd/expinput/record"
	"github.com/temoto/expinput/cmd/expinput/subcmd"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/internal/state"
	"github.com/temoto/expinput/log2"
)

var modules = []subcmd.Mod{
	record.Mod,
	console.Mod,
}

func main() {
	flagConfig := flag.String("config", "expinput.hcl", "")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config=PATH] COMMAND\n%s", os.Args[0], subcmd.Usage(modules))
		flag.PrintDefaults()
	}
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	if subcmd.SdNotify("start") {
		// under systemd, journal adds timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	mod, err := subcmd.Parse(flag.Arg(0), modules)
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	ctx, _ := state.NewContext(log)
	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	if !config.LogDebug {
		log.SetLevel(log2.LInfo)
	}

	err = mod.Main(ctx, config)
	if input.IsForceQuit(err) {
		// run terminated by operator, devices and recorder are closed already
		log.Fatalf("%s force quit: %v", mod.Name, err)
	}
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}
