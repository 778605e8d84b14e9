package main

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hesusruiz/mdpp/mdast"
	"github.com/hesusruiz/mdpp/parser"
	"github.com/hesusruiz/mdpp/render"
	"github.com/hesusruiz/mdpp/sliceedit"
)

var debug bool

var outputExt = map[string]string{
	"md":    ".out.md",
	"html":  ".html",
	"latex": ".tex",
	"typst": ".typ",
}

// splitFrontMatter separates an optional YAML front-matter header
// (between two `---` lines at the very beginning) from the markdown
// body.
func splitFrontMatter(src string) (header, body string) {
	if !strings.HasPrefix(src, "---\n") && src != "---" {
		return "", src
	}
	rest := src[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", src
	}
	header = rest[:end]
	body = rest[end+4:]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return header, body
}

// configFromFrontMatter merges render options from the `mdpp` section
// of the front matter over the defaults.
func configFromFrontMatter(cfg render.Config, config *yaml.YAML) render.Config {
	if config == nil {
		return cfg
	}
	if w, err := strconv.Atoi(config.String("mdpp.width", "")); err == nil && w > 0 {
		cfg = cfg.WithWidth(w)
	}
	cfg = cfg.WithHighlightStyle(config.String("mdpp.codeStyle", cfg.HighlightStyle))
	switch config.String("mdpp.tableStyle", "") {
	case "longtabu":
		cfg = cfg.WithTableStyle(render.Longtabu)
	case "booktabs":
		cfg = cfg.WithTableStyle(render.Booktabs)
	case "tabular":
		cfg = cfg.WithTableStyle(render.Tabular)
	}
	switch config.String("mdpp.codeBlockStyle", "") {
	case "listings":
		cfg = cfg.WithCodeBlockStyle(render.Listings)
	case "minted":
		cfg = cfg.WithCodeBlockStyle(render.Minted)
	case "verbatim":
		cfg = cfg.WithCodeBlockStyle(render.Verbatim)
	}
	return cfg
}

// renderDocument runs one file through the pipeline: normalize, strip
// front matter, parse, build the indices and render to the requested
// format.
func renderDocument(inputFileName, format string, diagrams bool, sugar *zap.SugaredLogger) (string, error) {

	raw, err := os.ReadFile(inputFileName)
	if err != nil {
		return "", err
	}

	src := sliceedit.NormalizeSource(raw)

	header, body := splitFrontMatter(string(src))
	var config *yaml.YAML
	if header != "" {
		config, err = yaml.ParseYaml(header)
		if err != nil {
			return "", fmt.Errorf("malformed YAML front matter in %s: %w", inputFileName, err)
		}
	}

	doc, err := parser.Parse(parser.NewState(), body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", inputFileName, err)
	}
	idx := mdast.BuildIndices(doc)

	cfg := configFromFrontMatter(render.NewConfig(), config).WithDiagrams(diagrams)

	if debug {
		sugar.Debugw("parsed document",
			"file", inputFileName,
			"blocks", len(doc.Blocks),
			"footnotes", len(idx.FootnoteDefs),
			"linkDefs", len(idx.LinkDefs))
	}

	switch format {
	case "md":
		return render.Markdown(doc, cfg), nil
	case "html":
		return render.HTML(doc, idx, cfg), nil
	case "latex":
		return render.LaTeX(doc, idx, cfg), nil
	case "typst":
		return render.Typst(doc, idx, cfg), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

// processWatch reprocesses the input file whenever its modification
// time advances. Useful during document development.
func processWatch(inputFileName, outputFileName, format string, diagrams bool, sugar *zap.SugaredLogger) error {

	var oldTimestamp time.Time

	for {
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		if oldTimestamp.Before(info.ModTime()) {
			oldTimestamp = info.ModTime()
			fmt.Println("************Processing*************")
			out, err := renderDocument(inputFileName, format, diagrams, sugar)
			if err != nil {
				sugar.Errorw("processing failed", "err", err)
			} else if err := os.WriteFile(outputFileName, []byte(out), 0664); err != nil {
				return err
			}
		}
		time.Sleep(1 * time.Second)
	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	var inputFileName = "index.md"

	outputFileName := c.String("output")
	format := c.String("to")
	dryrun := c.Bool("dryrun")
	debug = c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using %q\n", inputFileName)
	}

	if _, ok := outputExt[format]; !ok {
		return fmt.Errorf("unknown output format %q (want md, html, latex or typst)", format)
	}

	// Generate the output file name from the input name and format
	if len(outputFileName) == 0 {
		ext := path.Ext(inputFileName)
		if len(ext) == 0 {
			outputFileName = inputFileName + outputExt[format]
		} else {
			outputFileName = strings.TrimSuffix(inputFileName, ext) + outputExt[format]
		}
	}

	if !dryrun {
		fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	} else {
		fmt.Printf("dry run: processing %v without writing output\n", inputFileName)
	}

	if c.Bool("watch") {
		return processWatch(inputFileName, outputFileName, format, c.Bool("diagrams"), sugar)
	}

	out, err := renderDocument(inputFileName, format, c.Bool("diagrams"), sugar)
	if err != nil {
		return err
	}

	if dryrun {
		return nil
	}

	return os.WriteFile(outputFileName, []byte(out), 0664)
}

func main() {

	app := &cli.App{
		Name:     "mdpp",
		Version:  "v0.1",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "parse a Markdown document and render it to another format",
		UsageText: "mdpp [options] [INPUT_FILE] (default input file is index.md)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write output to `FILE` (default is input file name with the format's extension)",
			},
			&cli.StringFlag{
				Name:    "to",
				Aliases: []string{"t"},
				Value:   "html",
				Usage:   "output format: md, html, latex or typst",
			},
			&cli.BoolFlag{
				Name:    "diagrams",
				Aliases: []string{"g"},
				Usage:   "render fenced d2 blocks to inline SVG (html output)",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}

}
