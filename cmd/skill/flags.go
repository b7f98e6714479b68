package main

import (
	"os"

	"github.com/spf13/pflag"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/config"
)

var flags = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

func parseFlags() {
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])
}
