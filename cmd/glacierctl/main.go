// Command glacierctl loads a WGMS glacier table and its mass-balance tables
// and prints code filters and mass-balance rankings. It uses the same domain
// and table reader packages as the service.
//
// Usage:
//
//	go run ./cmd/glacierctl \
//	  -primary testdata/wgms/sheet-A.csv \
//	  -mass-balance testdata/wgms/sheet-EE.csv \
//	  -code '6?8' -top 5 -reverse
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/glacier-data-etl/internal/adapter/csvtable"
	"github.com/couchcryptid/glacier-data-etl/internal/domain"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("glacierctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	primary := fs.String("primary", "", "path to the glacier table (WGMS sheet A)")
	var massBalance stringList
	fs.Var(&massBalance, "mass-balance", "path to a mass-balance table (WGMS sheet EE); repeatable")
	code := fs.String("code", "", "classification code pattern, '?' matches one digit")
	top := fs.Int("top", 0, "print the top N glaciers by latest mass balance")
	reverse := fs.Bool("reverse", false, "rank highest mass balance first")
	delimiter := fs.String("delimiter", ",", "field delimiter of the tables")
	asJSON := fs.Bool("json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *primary == "" {
		fmt.Fprintln(stderr, "missing required flag: -primary")
		fs.Usage()
		return 2
	}
	if len([]rune(*delimiter)) != 1 {
		fmt.Fprintln(stderr, "-delimiter must be a single character")
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	reader := csvtable.NewReader([]rune(*delimiter)[0], logger)

	c, err := domain.NewGlacierCollection(ctx, reader, *primary)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	for _, path := range massBalance {
		if _, err := c.ReadMassBalanceData(ctx, path); err != nil {
			fmt.Fprintf(stderr, "FATAL: %v\n", err)
			return 1
		}
	}

	out := report{Glaciers: c.Len()}
	if *code != "" {
		matches := c.FilterByCode(*code)
		out.Code = &codeReport{Pattern: *code, Names: matches}
	}
	if *top > 0 {
		for _, g := range c.SortByLatestMassBalance(*top, *reverse) {
			out.Ranking = append(out.Ranking, g.Snapshot(c.UpdatedAt()))
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "FATAL: encode: %v\n", err)
			return 1
		}
		return 0
	}
	printReport(stdout, out)
	return 0
}

type codeReport struct {
	Pattern string   `json:"pattern"`
	Names   []string `json:"names"`
}

type report struct {
	Glaciers int                      `json:"glaciers"`
	Code     *codeReport              `json:"code,omitempty"`
	Ranking  []domain.GlacierSnapshot `json:"ranking,omitempty"`
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "Glaciers loaded: %d\n", r.Glaciers)

	if r.Code != nil {
		fmt.Fprintf(w, "\nCode %s: %d match(es)\n", r.Code.Pattern, len(r.Code.Names))
		for _, name := range r.Code.Names {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}

	if len(r.Ranking) > 0 {
		fmt.Fprintln(w, "\nLatest mass balance:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  #\tID\tNAME\tUNIT\tLATEST")
		for i, s := range r.Ranking {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%g\n", i+1, s.GlacierID, s.Name, s.Unit, *s.LatestMassBalance)
		}
		tw.Flush()
	}
}
