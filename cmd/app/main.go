package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/local/deckgen/internal/config"
	"github.com/local/deckgen/internal/deck"
	"github.com/local/deckgen/internal/logger"
	"github.com/local/deckgen/internal/metrics"
	"github.com/local/deckgen/internal/server"
	"github.com/local/deckgen/internal/spec"
	"github.com/local/deckgen/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	_ = logger.Init(logger.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logger.Close()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "create":
		err = cmdCreate(cfg, os.Args[2:])
	case "generate":
		err = cmdGenerate(cfg, os.Args[2:])
	case "inspect":
		err = cmdInspect(os.Args[2:])
	case "replace":
		err = cmdReplace(os.Args[2:])
	case "remove":
		err = cmdRemove(os.Args[2:])
	case "add":
		err = cmdAdd(os.Args[2:])
	case "serve":
		err = cmdServe(cfg)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `deckgen - generate presentations from declarative specifications

Usage:
  deckgen create   -title T [-subtitle S] [-author A] [-template path] -output out.pptx
  deckgen generate -spec spec.yaml [-template path] [-author A] -output out.pptx
  deckgen inspect  [-json] file.pptx
  deckgen replace  -input in.pptx -output out.pptx -set KEY=VALUE [-set ...]
  deckgen remove   -input in.pptx -output out.pptx -index N
  deckgen add      -input in.pptx -output out.pptx -title T [-bullets a,b,c]
  deckgen serve`)
}

// loadDeck opens the template if given, clearing its slides, or starts blank.
func loadDeck(template string) (*deck.Deck, error) {
	if template == "" {
		return deck.New(), nil
	}
	d, err := deck.Load(template)
	if err != nil {
		return nil, err
	}
	d.ClearSlides()
	return d, nil
}

func cmdCreate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "presentation title")
	subtitle := fs.String("subtitle", "", "presentation subtitle")
	author := fs.String("author", cfg.Deck.DefaultAuthor, "author core property")
	template := fs.String("template", cfg.Deck.DefaultTemplate, "template .pptx path")
	output := fs.String("output", "presentation.pptx", "output path")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("create: -title is required")
	}
	d, err := loadDeck(*template)
	if err != nil {
		return err
	}
	d.SetAuthor(*author)
	if _, err := d.AddTitleSlide(*title, *subtitle); err != nil {
		return err
	}
	path, err := d.Save(*output)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func cmdGenerate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	specPath := fs.String("spec", "", "specification file (YAML or JSON)")
	template := fs.String("template", cfg.Deck.DefaultTemplate, "template .pptx path")
	author := fs.String("author", "", "author core property")
	output := fs.String("output", "presentation.pptx", "output path")
	_ = fs.Parse(args)

	if *specPath == "" {
		return fmt.Errorf("generate: -spec is required")
	}
	doc, err := spec.DecodeFile(*specPath)
	if err != nil {
		return err
	}

	// The document's own template field applies unless overridden on the command line.
	tmpl := *template
	if tmpl == "" {
		tmpl = doc.Template
	}
	d, err := loadDeck(tmpl)
	if err != nil {
		return err
	}
	if *author != "" {
		d.SetAuthor(*author)
	} else if doc.Author == "" {
		d.SetAuthor(cfg.Deck.DefaultAuthor)
	}

	if err := spec.Build(d, doc); err != nil {
		return err
	}
	path, err := d.Save(*output)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %s (%d slides)\n", path, d.SlideCount())
	return nil
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "output as JSON")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: exactly one .pptx file expected")
	}

	d, err := deck.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	info := d.Info()

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Slides:  %d\n", info.SlideCount)
	fmt.Printf("Layouts: %d\n", info.LayoutCount)
	fmt.Printf("Size:    %.3f x %.3f in\n", info.SlideWidthIn, info.SlideHeightIn)
	for _, l := range info.Layouts {
		fmt.Printf("  [%d] %s\n", l.Index, l.Name)
		for _, ph := range l.Placeholders {
			fmt.Printf("      idx=%d type=%s name=%q\n", ph.Idx, ph.Type, ph.Name)
		}
	}
	return nil
}

// kvFlags collects repeated -set KEY=VALUE pairs.
type kvFlags map[string]string

func (k kvFlags) String() string { return fmt.Sprintf("%v", map[string]string(k)) }

func (k kvFlags) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected KEY=VALUE, got %q", v)
	}
	k[parts[0]] = parts[1]
	return nil
}

func cmdReplace(args []string) error {
	fs := flag.NewFlagSet("replace", flag.ExitOnError)
	input := fs.String("input", "", "input .pptx path")
	output := fs.String("output", "", "output path")
	pairs := kvFlags{}
	fs.Var(pairs, "set", "replacement as KEY=VALUE; may repeat. Matches literal {{KEY}} tokens")
	_ = fs.Parse(args)

	if *input == "" || *output == "" || len(pairs) == 0 {
		return fmt.Errorf("replace: -input, -output and at least one -set are required")
	}
	d, err := deck.Load(*input)
	if err != nil {
		return err
	}
	replacements := make(map[string]string, len(pairs))
	for k, v := range pairs {
		replacements["{{"+k+"}}"] = v
	}
	d.ReplacePlaceholders(replacements)
	path, err := d.Save(*output)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func cmdRemove(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	input := fs.String("input", "", "input .pptx path")
	output := fs.String("output", "", "output path")
	index := fs.Int("index", -1, "0-based slide index to remove")
	_ = fs.Parse(args)

	if *input == "" || *output == "" || *index < 0 {
		return fmt.Errorf("remove: -input, -output and -index are required")
	}
	d, err := deck.Load(*input)
	if err != nil {
		return err
	}
	if err := d.RemoveSlide(*index); err != nil {
		return err
	}
	path, err := d.Save(*output)
	if err != nil {
		return err
	}
	fmt.Printf("Removed slide %d, wrote %s (%d slides)\n", *index, path, d.SlideCount())
	return nil
}

func cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	input := fs.String("input", "", "input .pptx path")
	output := fs.String("output", "", "output path")
	title := fs.String("title", "", "slide title")
	bullets := fs.String("bullets", "", "comma-separated bullet items")
	layout := fs.String("layout", "", "layout name or index (default: content layout heuristic)")
	_ = fs.Parse(args)

	if *input == "" || *output == "" {
		return fmt.Errorf("add: -input and -output are required")
	}
	d, err := deck.Load(*input)
	if err != nil {
		return err
	}

	var ref any
	if *layout != "" {
		var n int
		if _, err := fmt.Sscanf(*layout, "%d", &n); err == nil {
			ref = n
		} else {
			ref = *layout
		}
	}
	layoutIdx, err := d.ResolveLayout(ref)
	if err != nil {
		return err
	}

	var items []string
	if *bullets != "" {
		items = strings.Split(*bullets, ",")
	}
	if _, err := d.AddContentSlide(*title, items, layoutIdx); err != nil {
		return err
	}
	path, err := d.Save(*output)
	if err != nil {
		return err
	}
	fmt.Printf("Added slide, wrote %s (%d slides)\n", path, d.SlideCount())
	return nil
}

func cmdServe(cfg config.Config) error {
	metrics.Init()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	go server.RunTempSweeper(ctx, cfg.Deck.TempDir, cfg.Deck.TempMaxAge)

	srv := server.New(cfg, store)
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("http server stopped")
		return err
	}
	fmt.Println("shutdown complete")
	return nil
}
