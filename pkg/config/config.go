package config

import (
	"os"
	"slices"
	"strings"

	"github.com/athapong/kg-extract/pkg/graph/processors"
	"github.com/athapong/kg-extract/pkg/graph/visualizer"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// KG_PARSER or KG_LAYOUT_SEED.
const EnvPrefix = "KG"

// Configuration keys
const (
	KeyParser           = "parser"
	KeyProseModelDir    = "prose.model-dir"
	KeyFormat           = "format"
	KeyVizOutput        = "viz-output"
	KeyServe            = "serve"
	KeyLogLevel         = "log-level"
	KeyLayoutSeed       = "layout.seed"
	KeyLayoutIterations = "layout.iterations"
	KeyLLMBaseURL       = "llm.base-url"
	KeyLLMAPIKey        = "llm.api-key"
	KeyLLMModel         = "llm.model"
)

// Parsers lists the accepted values of the parser key
var Parsers = []string{processors.ParserProse, processors.ParserSpacyJSON, processors.ParserLLM}

type LayoutConfig struct {
	// Seed is only used when Seeded is true; otherwise layouts vary per run.
	Seed       int64
	Seeded     bool
	Iterations int
}

type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Config holds the settings of one kgextract run
type Config struct {
	Parser        string
	ProseModelDir string
	Format        string
	VizOutput     string
	Serve         string
	LogLevel      string
	Layout        LayoutConfig
	LLM           LLMConfig

	// EnvFileLoaded reports whether the .env file given to Load was found.
	EnvFileLoaded bool
}

// flag name -> config key
var flagKeys = map[string]string{
	"parser":          KeyParser,
	"prose-model-dir": KeyProseModelDir,
	"format":          KeyFormat,
	"viz-output":      KeyVizOutput,
	"serve":           KeyServe,
	"log-level":       KeyLogLevel,
	"seed":            KeyLayoutSeed,
	"iterations":      KeyLayoutIterations,
	"llm-base-url":    KeyLLMBaseURL,
	"llm-model":       KeyLLMModel,
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("parser", processors.ParserProse, "Parser backend: "+strings.Join(Parsers, ", "))
	fs.String("prose-model-dir", "", "Directory of a custom prose NER model")
	fs.String("format", visualizer.FormatText, "Report format: "+strings.Join(visualizer.Formats, ", "))
	fs.String("viz-output", "knowledge_graph.html", "Output file for the graph rendering (empty to skip)")
	fs.String("serve", "", "Serve the rendering on this address until interrupted, e.g. :8080")
	fs.String("log-level", "info", "Logging level (debug, info, warn, error)")
	fs.Int64("seed", 0, "Seed for the spring layout; unseeded layouts differ between runs")
	fs.Int("iterations", 50, "Spring layout iterations")
	fs.String("llm-base-url", "", "Base URL of the OpenAI-compatible endpoint used by the llm parser")
	fs.String("llm-model", "gpt-4o-mini", "Model used by the llm parser")
}

// Load reads envFile (if it exists) into the environment, then resolves
// every key from flags, KG_* environment variables and defaults, in that
// order of precedence. fs may be nil.
func Load(envFile string, fs *pflag.FlagSet) (*Config, error) {
	envLoaded := false
	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			envLoaded = true
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// layout.seed has no default so that IsSet tells seeded from unseeded.
	v.SetDefault(KeyParser, processors.ParserProse)
	v.SetDefault(KeyProseModelDir, "")
	v.SetDefault(KeyFormat, visualizer.FormatText)
	v.SetDefault(KeyVizOutput, "knowledge_graph.html")
	v.SetDefault(KeyServe, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLayoutIterations, 50)
	v.SetDefault(KeyLLMModel, "gpt-4o-mini")

	// The llm parser also honours the usual OpenAI variables.
	_ = v.BindEnv(KeyLLMAPIKey, EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv(KeyLLMBaseURL, EnvPrefix+"_LLM_BASE_URL", "OPENAI_BASE_URL")

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "failed to bind flag --%s", name)
				}
			}
		}
	}

	cfg := &Config{
		Parser:        v.GetString(KeyParser),
		ProseModelDir: v.GetString(KeyProseModelDir),
		Format:        v.GetString(KeyFormat),
		VizOutput:     v.GetString(KeyVizOutput),
		Serve:         v.GetString(KeyServe),
		LogLevel:      v.GetString(KeyLogLevel),
		Layout: LayoutConfig{
			Seed:       v.GetInt64(KeyLayoutSeed),
			Seeded:     v.IsSet(KeyLayoutSeed),
			Iterations: v.GetInt(KeyLayoutIterations),
		},
		LLM: LLMConfig{
			BaseURL: v.GetString(KeyLLMBaseURL),
			APIKey:  v.GetString(KeyLLMAPIKey),
			Model:   v.GetString(KeyLLMModel),
		},
		EnvFileLoaded: envLoaded,
	}

	return cfg, nil
}

// Validate checks the configuration for values no run could use
func (c *Config) Validate() error {
	if !slices.Contains(Parsers, c.Parser) {
		return errors.Errorf("parser must be one of %s, got %q", strings.Join(Parsers, ", "), c.Parser)
	}
	if !slices.Contains(visualizer.Formats, c.Format) {
		return errors.Errorf("format must be one of %s, got %q", strings.Join(visualizer.Formats, ", "), c.Format)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	if c.Layout.Iterations <= 0 {
		return errors.Errorf("layout.iterations must be positive, got %d", c.Layout.Iterations)
	}
	if c.Parser == processors.ParserLLM {
		if c.LLM.APIKey == "" {
			return errors.New("llm parser requires KG_LLM_API_KEY or OPENAI_API_KEY")
		}
		if c.LLM.Model == "" {
			return errors.New("llm parser requires llm.model")
		}
	}
	return nil
}
