package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/athapong/kg-extract/pkg/config"
	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/athapong/kg-extract/pkg/graph/algorithms"
	"github.com/athapong/kg-extract/pkg/graph/metrics"
	"github.com/athapong/kg-extract/pkg/graph/processors"
	"github.com/athapong/kg-extract/pkg/graph/visualizer"
	"github.com/athapong/kg-extract/pkg/server"
	"github.com/athapong/kg-extract/services"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Used when no text, file or piped input is given.
const sampleText = `
Elon Musk is the CEO of SpaceX. He founded Tesla in 2003. Tesla produces electric cars.
`

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Fatal(err)
	}
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kgextract [file]",
		Short: "Extract entities and subject-verb-object triples into a knowledge graph",
		Long: `kgextract parses a text, prints its named entities and subject-verb-object
relationships, lays the relationship graph out with a spring layout and
renders it as an HTML page. With --serve the page is served until interrupted.

Input is taken from --text, a file argument (.txt, .md, .html, .pdf, or a
spaCy Doc.to_json() file with --parser spacy-json), or standard input.
Without any input a built-in sample text is used; --parser spacy-json has
no sample and needs explicit input.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, logger)
		},
	}

	cmd.Flags().String("env", ".env", "Path to environment file")
	cmd.Flags().String("text", "", "Text to extract from")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, args []string, logger *logrus.Logger) error {
	envFile, _ := cmd.Flags().GetString("env")
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logger.SetLevel(level)
	if !cfg.EnvFileLoaded && cmd.Flags().Changed("env") {
		logger.Warnf("Env file %s not found", envFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parser, err := newParser(cfg, logger)
	if err != nil {
		return errors.Wrapf(err, "failed to initialize %s parser", cfg.Parser)
	}

	input, err := readInput(ctx, cmd, args, cfg.Parser)
	if err != nil {
		return err
	}

	extractor := graph.NewExtractor(parser, graph.WithLogger(logger))
	res, err := extractor.Extract(ctx, input)
	if err != nil {
		return err
	}

	if err := visualizer.PrintReport(cmd.OutOrStdout(), res, cfg.Format); err != nil {
		return errors.Wrap(err, "failed to print report")
	}

	opts := algorithms.DefaultSpringOptions()
	opts.Iterations = cfg.Layout.Iterations
	if cfg.Layout.Seeded {
		seed := cfg.Layout.Seed
		opts.Seed = &seed
	}
	layout := algorithms.SpringLayout(res.Graph, opts)
	data := res.Graph.Data()

	viz := visualizer.NewD3Visualizer(cfg.VizOutput)
	if cfg.VizOutput != "" {
		if err := viz.Visualize(data, layout); err != nil {
			logger.WithError(err).Error("Failed to visualize knowledge graph")
		} else {
			logger.Infof("Visualization saved to %s", viz.OutputPath())
		}
	}

	metrics.UpdateSystemMetrics()

	if cfg.Serve != "" {
		return server.New(res.Graph, layout, viz, logger).Run(ctx, cfg.Serve)
	}
	return nil
}

func newParser(cfg *config.Config, logger *logrus.Logger) (graph.Parser, error) {
	switch cfg.Parser {
	case processors.ParserSpacyJSON:
		return processors.NewSpacyJSONParser(), nil
	case processors.ParserLLM:
		client := services.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		return processors.NewLLMParser(client, cfg.LLM.Model).WithLogger(logger), nil
	default:
		p, err := processors.NewProseParser(cfg.ProseModelDir)
		if err != nil {
			return nil, err
		}
		return p.WithLogger(logger), nil
	}
}

// readInput resolves the input text: --text, then a file argument, then
// non-empty piped standard input, then the built-in sample. The sample is
// plain text, so the spacy-json parser requires explicit input.
func readInput(ctx context.Context, cmd *cobra.Command, args []string, parser string) (string, error) {
	if cmd.Flags().Changed("text") {
		return cmd.Flags().GetString("text")
	}

	if len(args) == 1 {
		return processors.ReadInput(ctx, args[0])
	}

	if in := cmd.InOrStdin(); piped(in) {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", errors.Wrap(err, "failed to read standard input")
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), nil
		}
	}

	if parser == processors.ParserSpacyJSON {
		return "", errors.New("the spacy-json parser needs a parsed document: pass --text, a file or piped JSON")
	}
	return sampleText, nil
}

// piped reports whether in is something other than an interactive terminal
func piped(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice == 0
}
