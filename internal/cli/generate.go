package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oaplabs/swagger2py/internal/emitter/pyemitter"
	"github.com/oaplabs/swagger2py/internal/generator"
	"github.com/oaplabs/swagger2py/internal/spec"
	"github.com/oaplabs/swagger2py/pkg/codegen"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input         string
	Out           string
	ContentType   string
	ParentClass   string
	ParentPackage string
	FixedClasses  map[string]string
	ConfigPath    string
	DryRun        bool
	Verbose       bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		ContentType:   generator.DefaultResponseContentType,
		ParentClass:   generator.DefaultParentClass,
		ParentPackage: generator.DefaultParentPackage,
	}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Python client module from an OpenAPI/Swagger document",
		Long: "Generate a Python client module from an OpenAPI/Swagger document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swagger2py generate --input openapi.yaml --out ./client.py
  swagger2py --config config.yaml generate --content-type application/json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("out", "", "Output file path (derived from the input name when omitted)")
	flags.String("content-type", "", "Preferred request/response media type (default application/json)")
	flags.String("parent-class", "", "Base class of the generated data classes")
	flags.String("parent-package", "", "Python package the parent class is imported from")
	flags.Bool("dry-run", false, "Print the generated source to stdout without writing files")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	if flags.Changed("input") {
		value, err := flags.GetString("input")
		if err != nil {
			return err
		}
		cfg.Input = strings.TrimSpace(value)
	}
	if flags.Changed("out") {
		value, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = strings.TrimSpace(value)
	}
	if flags.Changed("content-type") {
		value, err := flags.GetString("content-type")
		if err != nil {
			return err
		}
		cfg.ContentType = strings.TrimSpace(value)
	}
	if flags.Changed("parent-class") {
		value, err := flags.GetString("parent-class")
		if err != nil {
			return err
		}
		cfg.ParentClass = strings.TrimSpace(value)
	}
	if flags.Changed("parent-package") {
		value, err := flags.GetString("parent-package")
		if err != nil {
			return err
		}
		cfg.ParentPackage = strings.TrimSpace(value)
	}
	if flags.Changed("dry-run") {
		value, err := flags.GetBool("dry-run")
		if err != nil {
			return err
		}
		cfg.DryRun = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.ContentType = strings.ToLower(strings.TrimSpace(c.ContentType))
	c.ParentClass = strings.TrimSpace(c.ParentClass)
	c.ParentPackage = strings.TrimSpace(c.ParentPackage)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}
	if c.ContentType == "" {
		c.ContentType = generator.DefaultResponseContentType
	}
	if c.ParentClass == "" && c.ParentPackage != "" {
		return newUsageError("generate: --parent-package requires --parent-class")
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	logger := newLogger(cfg.Verbose)

	opts := []codegen.Option{
		codegen.WithResponseContentType(cfg.ContentType),
		codegen.WithParentClass(cfg.ParentClass),
		codegen.WithParentClassPackage(cfg.ParentPackage),
		codegen.WithLogger(logger),
	}
	if len(cfg.FixedClasses) > 0 {
		opts = append(opts, codegen.WithFixedClassDefinitions(cfg.FixedClasses))
	}

	res, err := generate(ctx, cfg.Input, opts)
	if err != nil {
		return friendlyError(err)
	}

	if len(res.Source) == 0 {
		fmt.Fprintln(os.Stdout, "No definitions found; nothing to generate.")
		return nil
	}

	if cfg.DryRun {
		os.Stdout.Write(res.Source)
		for _, sk := range res.Skipped {
			fmt.Fprintf(os.Stderr, "Skipped %s %s: %s\n", sk.Method, sk.Path, sk.Detail)
		}
		return nil
	}

	out := cfg.Out
	if out == "" {
		out = deriveOutPath(cfg.Input)
	}
	absOut := out
	if ap, err := filepath.Abs(out); err == nil {
		absOut = ap
	}
	if err := pyemitter.WriteFile(out, res.Source); err != nil {
		return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out or check directory permissions.", absOut, err))
	}

	for _, sk := range res.Skipped {
		fmt.Fprintf(os.Stderr, "Skipped %s %s: %s\n", sk.Method, sk.Path, sk.Detail)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", absOut)
	return nil
}

func generate(ctx context.Context, input string, opts []codegen.Option) (*codegen.Result, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return codegen.FromURL(ctx, input, opts...)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("generate: cannot open input %q: %v", input, err))
	}
	defer f.Close()
	return codegen.FromReader(ctx, f, opts...)
}

// friendlyError maps structured loader and generator errors to messages a
// user can act on; anything else passes through unchanged.
func friendlyError(err error) error {
	var se *spec.SpecError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("spec: %s", se.Message)
		if se.Location != "" {
			msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
		}
		return newUsageError(msg)
	}
	var ge *generator.SchemaError
	if errors.As(err, &ge) {
		return newUsageError(fmt.Sprintf("schema: %v", ge))
	}
	var ce *generator.ConfigError
	if errors.As(err, &ce) {
		return newUsageError(fmt.Sprintf("config: %s", ce.Message))
	}
	return err
}

func deriveOutPath(input string) string {
	base := filepath.Base(input)
	if i := strings.LastIndex(base, "?"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "client"
	}
	return base + ".py"
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		switch normalized {
		case "input":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Input = str
		case "out":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Out = str
		case "contenttype":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.ContentType = str
		case "parentclass":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.ParentClass = str
		case "parentpackage":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.ParentPackage = str
		case "fixedclasses":
			m, err := valueAsStringMap(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.FixedClasses = m
		case "dryrun":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.DryRun = val
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringMap(v any) (map[string]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, elem := range val {
			str, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("key %q: expected string, got %T", k, elem)
			}
			out[k] = str
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
