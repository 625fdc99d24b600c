// Command ers backtests a portfolio selected by Twitter engagement ratio.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"time"

	"github.com/etnz/engagement/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var verbose = flag.Bool("v", false, "Print debug logs")

func main() {
	name := path.Base(os.Args[0])
	completion(name).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 ers.
func completion(name string) *complete.Command {
	global := map[string]complete.Predictor{
		"config":        predict.Files("*.yaml"),
		"input":         predict.Files("*.csv"),
		"provider":      predict.Set(cmd.Providers),
		"eodhd-api-key": predict.Something,
		"cache-dir":     predict.Dirs("*"),
		"eodhd-rate":    predict.Something,
		"v":             predict.Nothing,
	}
	sub := map[string]*complete.Command{
		"help":  {},
		"flags": {},
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		flags := map[string]complete.Predictor{}
		fs.VisitAll(func(f *flag.Flag) {
			flags[f.Name] = predict.Something
		})
		sub[c.Name()] = &complete.Command{Flags: flags}
	}
	sub["backtest"].Flags["chart"] = predict.Files("*.pdf")
	sub["backtest"].Flags["html"] = predict.Files("*.html")
	sub["backtest"].Flags["skip-months"] = predict.Nothing
	sub["signal"].Flags["ties"] = predict.Set{"keep-ties", "truncate"}
	return &complete.Command{Sub: sub, Flags: global}
}
