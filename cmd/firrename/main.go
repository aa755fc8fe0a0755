// firrename applies a renaming rule to every identifier of a circuit and
// reports the resulting old→new mappings.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/tdb-alcorn/firrtl/internal/config"
	"github.com/tdb-alcorn/firrtl/internal/ir"
	"github.com/tdb-alcorn/firrtl/internal/parser"
	"github.com/tdb-alcorn/firrtl/internal/rename"
	"github.com/tdb-alcorn/firrtl/internal/renamemap"
)

var log = logrus.New()

func main() {
	app := cli.NewApp()
	app.Name = "firrename"
	app.Usage = "rename identifiers in a circuit"
	app.ArgsUsage = "<input.fir>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rule",
			Value: "keywords",
			Usage: "renaming rule: prefix, lowercase, uppercase or keywords",
		},
		cli.StringFlag{
			Name:  "prefix",
			Usage: "prefix for the prefix rule",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML configuration file (rule, keywords, skip targets)",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the renamed circuit to `FILE` (default stdout)",
		},
		cli.StringFlag{
			Name:  "renames",
			Usage: "write the rename ledger as JSON to `FILE`",
		},
		cli.BoolFlag{
			Name:  "table",
			Usage: "print the rename ledger as a table on stderr",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "enable debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "firrename: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file, got %d", ctx.NArg())
	}
	if ctx.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}

	inputPath := ctx.Args().First()
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	p := parser.New(string(source))
	circuit := p.Parse()
	if p.Diagnostics().HasErrors() {
		return fmt.Errorf("parse errors:\n%s", p.Diagnostics().Format(inputPath))
	}
	log.WithFields(logrus.Fields{
		"circuit": circuit.Main,
		"modules": len(circuit.Modules),
	}).Debug("parsed input")

	cfg := &config.Config{
		Rule:   ctx.String("rule"),
		Prefix: ctx.String("prefix"),
	}
	if path := ctx.String("config"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
	}
	rule, err := cfg.BuildRule()
	if err != nil {
		return err
	}
	skips, err := cfg.SkipSet()
	if err != nil {
		return err
	}

	ledger := renamemap.New()
	renamed, err := rename.Run(circuit, ledger, skips, rule)
	if err != nil {
		return err
	}
	log.WithField("renames", ledger.Len()).Debug("renaming complete")

	out := ir.Serialize(renamed)
	if path := ctx.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return err
		}
	} else {
		fmt.Print(out)
	}

	if path := ctx.String("renames"); path != "" {
		if err := writeRenamesJSON(path, ledger); err != nil {
			return err
		}
	}
	if ctx.Bool("table") {
		printRenamesTable(ledger)
	}
	return nil
}

// renameEntry is the JSON form of one ledger mapping.
type renameEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func writeRenamesJSON(path string, ledger *renamemap.RenameMap) error {
	entries := ledger.Entries()
	out := make([]renameEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, renameEntry{From: e.From.Key(), To: e.To.Key()})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func printRenamesTable(ledger *renamemap.RenameMap) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"From", "To"})
	for _, e := range ledger.Entries() {
		table.Append([]string{e.From.Key(), e.To.Key()})
	}
	table.Render()
}
