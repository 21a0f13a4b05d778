// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/beevik/term"
	"github.com/ct6502/apple2ts-studio/config"
	"github.com/ct6502/apple2ts-studio/host"
)

// A list of file names given by a repeatable flag.
type fileList []string

func (f *fileList) String() string {
	return strings.Join(*f, ",")
}

func (f *fileList) Set(s string) error {
	*f = append(*f, s)
	return nil
}

var (
	assemble   fileList
	configFile string
	imageDir   string
)

// Flags that override configuration settings, by setting key.
var overrides = map[string]*string{
	"backend":    new(string),
	"besteffort": new(string),
	"timeout":    new(string),
}

func init() {
	flag.Var(&assemble, "a", "assemble file (may be repeated)")
	flag.StringVar(&configFile, "config", "", "load settings from file")
	flag.StringVar(&imageDir, "o", "", "save program images to directory")
	flag.StringVar(overrides["backend"], "backend", "", "assembler backend (64tass, cl65, merlin32, fallback)")
	flag.StringVar(overrides["besteffort"], "besteffort", "", "use built-in encoder if tool is missing (true/false)")
	flag.StringVar(overrides["timeout"], "timeout", "", "tool time limit (e.g. 30s)")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: apple2ts [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		exitOnError(err)
	}

	h := host.New(cfg)
	h.SaveImages(imageDir)

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Do command-line assemble if requested.
	if len(assemble) > 0 {
		if err := h.AssembleFiles(assemble...); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Run commands contained in command-line files.
	args := flag.Args()
	if len(args) > 0 {
		for _, filename := range args {
			file, err := os.Open(filename)
			if err != nil {
				exitOnError(err)
			}
			h.RunCommands(file, os.Stdout, false)
			file.Close()
		}
		return
	}

	// Run commands interactively, or from piped input.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// Build the configuration from its defaults, the settings file, the
// environment and command-line flags, in that order.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if configFile != "" {
		if err := cfg.Load(configFile); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		if v, ok := overrides[f.Name]; ok && err == nil {
			err = cfg.Set(f.Name, *v)
		}
	})
	return cfg, err
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
