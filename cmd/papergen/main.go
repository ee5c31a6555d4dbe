// Command papergen generates a paper from a workbook without running the
// server.
//
//	papergen -file questions.xlsx -type special -unit 3
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
	"github.com/mind-engage/mindengage-qpaper/internal/config"
	"github.com/mind-engage/mindengage-qpaper/internal/ingest"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
)

func main() {
	_ = config.LoadDotEnv()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("papergen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		file     = fs.String("file", "", "path to the .xlsx or .xls question workbook")
		typ      = fs.String("type", "mid1", "paper type: mid1, mid2 or special")
		unit     = fs.Int("unit", 0, "main unit for special papers")
		seed     = fs.Uint64("seed", config.FromEnv().RandomSeed, "random seed, 0 for a time based seed")
		asJSON   = fs.Bool("json", false, "print the paper as JSON")
		noColors = fs.Bool("no-color", false, "disable colored output")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *noColors {
		color.NoColor = true
	}
	errOut := color.New(color.FgRed)
	if *file == "" {
		errOut.Fprintln(stderr, "-file is required")
		fs.Usage()
		return 2
	}

	qs, err := ingest.Load(*file, "")
	if err != nil {
		errOut.Fprintf(stderr, "read %s: %v\n", *file, err)
		return 1
	}
	h := bank.NewHolder()
	h.Replace(qs)

	req := paper.Request{Type: paper.Type(*typ)}
	if *unit != 0 {
		req.MainUnit = unit
	}
	p, err := paper.NewGenerator(h, *seed).Generate(req)
	if err != nil {
		errOut.Fprintf(stderr, "generate: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			errOut.Fprintf(stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}
	render(stdout, p)
	return 0
}

func render(w io.Writer, p paper.Paper) {
	d := p.Details
	color.New(color.FgCyan, color.Bold).Fprintf(w, "\n=== %s (%s) ===\n", d.Subject, d.SubjectCode)
	color.New(color.FgYellow).Fprintf(w, "%s | %s | Year %s | Sem %s | %s paper\n\n", d.Branch, d.Regulation, d.Year, d.Semester, p.Type)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"No", "Unit", "Question", "B.T Level"})
	table.SetAutoWrapText(true)
	table.SetRowLine(true)
	for i, q := range p.Questions {
		table.Append([]string{
			strconv.Itoa(i + 1),
			q.Unit.String(),
			q.Question,
			q.BTLevel,
		})
	}
	table.Render()
	fmt.Fprintf(w, "paper %s\n", p.ID)
}
