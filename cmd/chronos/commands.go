package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"chronos/internal/chronodate"
	"chronos/internal/daterange"
	"chronos/internal/document"
	"chronos/internal/ics"
	"chronos/internal/locale"
	appLog "chronos/internal/log"
	"chronos/internal/model"
	"chronos/internal/parser"
	"chronos/internal/timeline"
	"chronos/internal/web"
)

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse timeline text and print the result as JSON.",
		ArgsUsage: "[FILE|-]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "compact", Usage: "Print JSON on one line."},
		},
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}
			opts, err := conf.ParseOptions("")
			if err != nil {
				return err
			}
			src, err := readInput(c, c.Args().First())
			if err != nil {
				return err
			}

			res, perr := timeline.Parse(string(src), opts)
			if err := writeJSON(c.App.Writer, res, c.Bool("compact")); err != nil {
				return err
			}
			return reportLineErrors(c, perr)
		},
	}
}

// scannedBlock is the JSON shape printed by `chronos scan`.
type scannedBlock struct {
	Form   document.Form     `json:"form"`
	Line   int               `json:"line"`
	Result model.ParseResult `json:"result"`
	Errors []string          `json:"errors,omitempty"`
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Parse every chronos block in a Markdown document.",
		ArgsUsage: "FILE.md",
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}
			opts, err := conf.ParseOptions("")
			if err != nil {
				return err
			}
			if c.NArg() != 1 {
				return errors.New("scan: expected exactly one Markdown file")
			}
			doc, err := readInput(c, c.Args().First())
			if err != nil {
				return err
			}

			compiled := document.Compile(doc, opts)
			out := make([]scannedBlock, 0, len(compiled))
			failed := 0
			for _, b := range compiled {
				sb := scannedBlock{Form: b.Block.Form, Line: b.Block.Line, Result: b.Result}
				if b.Err != nil {
					failed++
					sb.Errors = []string{b.Err.Error()}
					var agg *parser.AggregateError
					if errors.As(b.Err, &agg) {
						sb.Errors = agg.Messages()
					}
				}
				out = append(out, sb)
			}
			if err := writeJSON(c.App.Writer, out, false); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("scan: %d of %d blocks have errors", failed, len(compiled))
			}
			return nil
		},
	}
}

func normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Print the canonical form of partial ISO dates.",
		ArgsUsage: "DATE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("normalize: at least one date is required")
			}
			var errs []error
			for _, raw := range c.Args().Slice() {
				d, err := chronodate.Normalize(raw)
				if err != nil {
					errs = append(errs, err)
					fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", raw, err)
					continue
				}
				fmt.Fprintln(c.App.Writer, d.String())
			}
			return errors.Join(errs...)
		},
	}
}

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Format a date or date range for the configured locale.",
		ArgsUsage: "START [END]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "en", Usage: `Read dates as English text, e.g. "June 1st, 2023".`},
		},
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}
			if c.NArg() < 1 || c.NArg() > 2 {
				return errors.New("format: expected START [END]")
			}
			read := chronodate.Normalize
			if c.Bool("en") {
				read = chronodate.ParseEnglish
			}

			start, err := read(c.Args().Get(0))
			if err != nil {
				return err
			}
			var end *chronodate.Date
			if c.NArg() == 2 {
				e, err := read(c.Args().Get(1))
				if err != nil {
					return err
				}
				end = &e
			}

			table := conf.Locales()
			code := conf.Locale
			if canonical, ok := table.Canonical(code); ok {
				code = canonical
			}
			f := daterange.Formatter{Locales: table}
			fmt.Fprintln(c.App.Writer, f.Format(start, end, code))
			return nil
		},
	}
}

func localesCommand() *cli.Command {
	return &cli.Command{
		Name:  "locales",
		Usage: "List known locale codes with their native names.",
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}
			for _, code := range conf.Locales().Known() {
				dir := "ltr"
				if locale.IsRTL(code) {
					dir = "rtl"
				}
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", code, dir, locale.DisplayName(code))
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export timeline text as an iCalendar file.",
		ArgsUsage: "FILE|-",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "Output .ics path, - for stdout"},
			&cli.StringFlag{Name: "name", Usage: "Calendar name"},
		},
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}
			opts, err := conf.ParseOptions("")
			if err != nil {
				return err
			}
			src, err := readInput(c, c.Args().First())
			if err != nil {
				return err
			}

			res, perr := timeline.Parse(string(src), opts)
			out := ics.Export(res, ics.ExportOptions{Name: c.String("name")})

			w, closeFn, err := openOutput(c, c.String("output"))
			if err != nil {
				return err
			}
			if err := out.Serialize(w); err != nil {
				closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			return reportLineErrors(c, perr)
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Convert an ICS file or feed into timeline text.",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "Fetch the feed from this URL instead of a file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "Output path, - for stdout"},
		},
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}

			var (
				src  ics.Source
				body []byte
			)
			switch {
			case c.String("url") != "":
				src = ics.Source{URL: c.String("url")}
				res, err := ics.NewFetcher(conf.Import.CacheDir).Fetch(c.Context, src)
				if err != nil {
					return err
				}
				src, body = res.Source, res.Body
			case c.NArg() == 1:
				src = ics.Source{ID: c.Args().First()}
				if body, err = readInput(c, c.Args().First()); err != nil {
					return err
				}
			default:
				return errors.New("import: expected FILE or --url")
			}

			events, err := ics.ParseICS(src, body)
			if err != nil {
				return err
			}
			text, err := ics.ToTimeline(events, ics.ImportOptions{
				HorizonDays:    conf.Import.HorizonDays,
				BackfillDays:   conf.Import.BackfillDays,
				MaxOccurrences: conf.Import.MaxOccurrences,
			})
			if err != nil {
				return err
			}

			w, closeFn, err := openOutput(c, c.String("output"))
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, text); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "HTTP listen address (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			conf, err := configFrom(c)
			if err != nil {
				return err
			}
			if l := c.String("listen"); l != "" {
				conf.Listen = l
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return web.StartServer(ctx, conf)
		},
	}
}

// readInput reads a named file, or the app's stdin for "" and "-".
func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(path)
}

// openOutput opens path for writing, or returns the app's stdout for "-".
func openOutput(c *cli.Context, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return c.App.Writer, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// reportLineErrors prints each line failure to stderr and turns them into
// the command's error.
func reportLineErrors(c *cli.Context, err error) error {
	if err == nil {
		return nil
	}
	var agg *parser.AggregateError
	if !errors.As(err, &agg) {
		return err
	}
	for _, msg := range agg.Messages() {
		fmt.Fprintln(c.App.ErrWriter, msg)
	}
	appLog.Debug("parse finished with line errors", "count", len(agg.Errors))
	return fmt.Errorf("%d line(s) failed to parse", len(agg.Errors))
}
