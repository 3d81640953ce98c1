package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/dshills/codereg/internal/comment"
	"github.com/dshills/codereg/internal/order"
	"github.com/dshills/codereg/internal/redact"
	"github.com/dshills/codereg/internal/source"
)

// ErrInvalid is wrapped by every validation and key error.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CODEREG_"

// Config represents the codereg configuration.
type Config struct {
	Software  SoftwareConfig  `koanf:"software" yaml:"software" json:"software"`
	Source    SourceConfig    `koanf:"source" yaml:"source" json:"source"`
	Order     OrderConfig     `koanf:"order" yaml:"order" json:"order"`
	Redaction RedactionConfig `koanf:"redaction" yaml:"redaction" json:"redaction"`
	Document  DocumentConfig  `koanf:"document" yaml:"document" json:"document"`
	Report    ReportConfig    `koanf:"report" yaml:"report" json:"report"`
	Cache     CacheConfig     `koanf:"cache" yaml:"cache" json:"cache"`
	Workers   int             `koanf:"workers" yaml:"workers" json:"workers"`
	Log       LogConfig       `koanf:"log" yaml:"log" json:"log"`
}

// SoftwareConfig names the software being registered. Name and version form
// the page header and the output file names.
type SoftwareConfig struct {
	Name    string `koanf:"name" yaml:"name" json:"name"`
	Version string `koanf:"version" yaml:"version" json:"version"`
}

// SourceConfig controls which files are read and how.
type SourceConfig struct {
	Include        []string `koanf:"include" yaml:"include" json:"include"`
	Exclude        []string `koanf:"exclude" yaml:"exclude" json:"exclude"`
	MinLines       int      `koanf:"minLines" yaml:"minLines" json:"minLines"`
	KeepBlankLines bool     `koanf:"keepBlankLines" yaml:"keepBlankLines" json:"keepBlankLines"`
	Encoding       string   `koanf:"encoding" yaml:"encoding" json:"encoding"`
	GitTracked     bool     `koanf:"gitTracked" yaml:"gitTracked" json:"gitTracked"`
}

// OrderConfig controls document order.
type OrderConfig struct {
	Strategy string   `koanf:"strategy" yaml:"strategy" json:"strategy"`
	Files    []string `koanf:"files" yaml:"files" json:"files"`
}

// RedactionConfig holds the removal rules and the foreign-comment heuristic.
type RedactionConfig struct {
	StripFileHeader      bool    `koanf:"stripFileHeader" yaml:"stripFileHeader" json:"stripFileHeader"`
	StripBlockComments   bool    `koanf:"stripBlockComments" yaml:"stripBlockComments" json:"stripBlockComments"`
	StripForeignComments bool    `koanf:"stripForeignComments" yaml:"stripForeignComments" json:"stripForeignComments"`
	SamplingRatio        int     `koanf:"samplingRatio" yaml:"samplingRatio" json:"samplingRatio"`
	NativeScript         string  `koanf:"nativeScript" yaml:"nativeScript" json:"nativeScript"`
	MinTokens            int     `koanf:"minTokens" yaml:"minTokens" json:"minTokens"`
	ForeignRatio         float64 `koanf:"foreignRatio" yaml:"foreignRatio" json:"foreignRatio"`
}

// DocumentConfig controls the generated documents.
type DocumentConfig struct {
	Format       string `koanf:"format" yaml:"format" json:"format"`
	LinesPerPage int    `koanf:"linesPerPage" yaml:"linesPerPage" json:"linesPerPage"`
	OutDir       string `koanf:"outDir" yaml:"outDir" json:"outDir"`
	PDFFont      string `koanf:"pdfFont" yaml:"pdfFont" json:"pdfFont"`
}

// ReportConfig controls the run report printed to stdout.
type ReportConfig struct {
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `koanf:"enabled" yaml:"enabled" json:"enabled"`
	Dir        string `koanf:"dir" yaml:"dir" json:"dir"`
	TTLSeconds int    `koanf:"ttlSeconds" yaml:"ttlSeconds" json:"ttlSeconds"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `koanf:"level" yaml:"level" json:"level"`
	JSON  bool   `koanf:"json" yaml:"json" json:"json"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Software: SoftwareConfig{Version: "V1.0"},
		Source: SourceConfig{
			Include:  []string{},
			Exclude:  []string{".*", "vendor/**", "node_modules/**", "**/dist/**", "**/build/**", "**/*.min.js"},
			MinLines: 10,
			Encoding: "auto",
		},
		Order: OrderConfig{
			Strategy: string(order.ByLines),
			Files:    []string{},
		},
		Redaction: RedactionConfig{
			NativeScript: comment.DefaultNativeScript,
			MinTokens:    comment.DefaultMinTokens,
			ForeignRatio: comment.DefaultForeignRatio,
		},
		Document: DocumentConfig{
			Format:       "docx",
			LinesPerPage: 50,
			OutDir:       ".",
		},
		Report: ReportConfig{Format: "text"},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 7 * 86400,
		},
		Workers: 4,
		Log:     LogConfig{Level: "info"},
	}
}

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
	kindFloat
	kindList
)

// keys lists every settable key with its value kind. Environment variable
// names are derived by envName.
var keys = map[string]kind{
	"software.name":                  kindString,
	"software.version":               kindString,
	"source.include":                 kindList,
	"source.exclude":                 kindList,
	"source.minLines":                kindInt,
	"source.keepBlankLines":          kindBool,
	"source.encoding":                kindString,
	"source.gitTracked":              kindBool,
	"order.strategy":                 kindString,
	"order.files":                    kindList,
	"redaction.stripFileHeader":      kindBool,
	"redaction.stripBlockComments":   kindBool,
	"redaction.stripForeignComments": kindBool,
	"redaction.samplingRatio":        kindInt,
	"redaction.nativeScript":         kindString,
	"redaction.minTokens":            kindInt,
	"redaction.foreignRatio":         kindFloat,
	"document.format":                kindString,
	"document.linesPerPage":          kindInt,
	"document.outDir":                kindString,
	"document.pdfFont":               kindString,
	"report.format":                  kindString,
	"cache.enabled":                  kindBool,
	"cache.dir":                      kindString,
	"cache.ttlSeconds":               kindInt,
	"workers":                        kindInt,
	"log.level":                      kindString,
	"log.json":                       kindBool,
}

// Keys returns every settable key, sorted.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// envName maps "redaction.samplingRatio" to "CODEREG_REDACTION_SAMPLING_RATIO".
func envName(key string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for _, r := range key {
		switch {
		case r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

var envKeys = func() map[string]string {
	m := make(map[string]string, len(keys))
	for k := range keys {
		m[envName(k)] = k
	}
	return m
}()

// ConfigDir returns the platform-appropriate config directory for codereg.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codereg"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "codereg"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "codereg"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "codereg"), nil
	default:
		return filepath.Join(home, ".config", "codereg"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective config by merging defaults <- file <- env <-
// overrides and validates the result. An empty path selects ConfigPath and
// tolerates a missing file; an explicit path must exist. Override keys use
// the dotted form returned by Keys.
func Load(path string, overrides map[string]any) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}
	if err := loadFile(k, path, explicit); err != nil {
		return Config{}, err
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}
	for key, v := range overrides {
		if _, ok := keys[key]; !ok {
			return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
		}
		if err := k.Set(key, v); err != nil {
			return Config{}, fmt.Errorf("applying %s: %w", key, err)
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// envValue maps CODEREG_* variables through the key table; unknown names
// are ignored.
func envValue(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok {
		return "", nil
	}
	return key, value
}

func unmarshal(k *koanf.Koanf) (Config, error) {
	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	})
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

var (
	documentFormats = []string{"docx", "pdf", "txt", "md"}
	reportFormats   = []string{"text", "json", "yaml", "markdown"}
	logLevels       = []string{"debug", "info", "warn", "error"}
)

// Validate reports every problem in cfg, joined, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !slices.Contains(documentFormats, c.Document.Format) {
		bad("document.format %q (valid: %s)", c.Document.Format, strings.Join(documentFormats, ", "))
	}
	if !slices.Contains(reportFormats, c.Report.Format) {
		bad("report.format %q (valid: %s)", c.Report.Format, strings.Join(reportFormats, ", "))
	}
	if c.Document.LinesPerPage < 1 {
		bad("document.linesPerPage must be at least 1, got %d", c.Document.LinesPerPage)
	}
	if err := c.Rules().Validate(); err != nil {
		bad("redaction: %v", err)
	}
	if _, err := c.Tagger(); err != nil {
		bad("redaction: %v", err)
	}
	if _, err := order.ParseStrategy(c.Order.Strategy); err != nil {
		bad("order.strategy: %v", err)
	}
	if c.Source.MinLines < 0 {
		bad("source.minLines must not be negative, got %d", c.Source.MinLines)
	}
	if !source.ValidEncoding(c.Source.Encoding) {
		bad("source.encoding %q is not a known encoding", c.Source.Encoding)
	}
	if err := source.ValidatePatterns(c.Source.Include); err != nil {
		bad("source.include: %v", err)
	}
	if err := source.ValidatePatterns(c.Source.Exclude); err != nil {
		bad("source.exclude: %v", err)
	}
	if c.Workers < 0 {
		bad("workers must not be negative, got %d", c.Workers)
	}
	if c.Cache.TTLSeconds < 0 {
		bad("cache.ttlSeconds must not be negative, got %d", c.Cache.TTLSeconds)
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		bad("log.level %q (valid: %s)", c.Log.Level, strings.Join(logLevels, ", "))
	}
	return errors.Join(errs...)
}

// Rules returns the redaction rules.
func (c Config) Rules() redact.Rules {
	return redact.Rules{
		StripFileHeader:      c.Redaction.StripFileHeader,
		StripBlockComments:   c.Redaction.StripBlockComments,
		StripForeignComments: c.Redaction.StripForeignComments,
		SamplingRatio:        c.Redaction.SamplingRatio,
	}
}

// Tagger builds the foreign-comment tagger from the redaction settings.
func (c Config) Tagger() (*comment.ScriptTagger, error) {
	return comment.NewScriptTagger(c.Redaction.NativeScript, c.Redaction.MinTokens, c.Redaction.ForeignRatio)
}

// Title is the page header of the kept document.
func (c Config) Title() string {
	return strings.TrimSpace(c.Software.Name + " " + c.Software.Version)
}

// Init writes the defaults to path. An existing file is left untouched
// unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s", path)
	}
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}
	return save(k, path)
}

// Set parses value for key, checks that the resulting effective config is
// valid and writes only the file layer back to path. List values are comma
// separated; an empty value clears the list.
func Set(path, key, value string) error {
	kd, ok := keys[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
	}
	v, err := parseValue(kd, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}

	file := koanf.New(".")
	if err := loadFile(file, path, false); err != nil {
		return err
	}
	if err := file.Set(key, v); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	merged := koanf.New(".")
	if err := merged.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}
	if err := merged.Merge(file); err != nil {
		return fmt.Errorf("merging config: %w", err)
	}
	cfg, err := unmarshal(merged)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return save(file, path)
}

func parseValue(kd kind, s string) (any, error) {
	switch kd {
	case kindInt:
		return strconv.Atoi(strings.TrimSpace(s))
	case kindBool:
		return strconv.ParseBool(strings.TrimSpace(s))
	case kindFloat:
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case kindList:
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return s, nil
	}
}

func save(k *koanf.Koanf, path string) error {
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
