/*
Draftcli is an interactive shell for the drafting workbench. It creates
entities in a document, runs modifiers on them and exports the document
as SVG or DXF.

Usage:

	draftcli [-trace level] [-prefs file.toml]

Type "help" at the prompt for a list of commands.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'draft.cli'
func tracer() tracing.Trace {
	return tracing.Select("draft.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.draft.cli":       "Info",
		"trace.draft.modifiers": "Info",
		"trace.draft.objects":   "Error",
		"trace.draft.export":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	prefs := flag.String("prefs", "", "TOML preference file to load")
	flag.Parse()
	setTraceLevel(*tlevel)
	pterm.Info.Println("Welcome to the drafting CLI")
	//
	if *prefs != "" {
		if err := parameters.Global().LoadFile(*prefs); err != nil {
			tracer().Errorf("%v", err)
			os.Exit(2)
		}
		pterm.Info.Printfln("Preferences loaded from %s", *prefs)
	}
	//
	// set up REPL
	repl, err := readline.New("draft > ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	defer repl.Close()
	doc := document.New("Unnamed")
	document.SetActive(doc)
	intp := NewIntp(doc)
	pterm.Info.Println("Quit with <ctrl>D or \"quit\"")
	intp.REPL(repl)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(s string) {
	switch strings.ToLower(s) {
	case "debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().SetTraceLevel(tracing.LevelInfo)
	}
}

// REPL reads commands until end of input or "quit".
func (intp *Intp) REPL(repl *readline.Instance) {
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Execute(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}
