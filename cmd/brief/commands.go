package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"blueprint-studio/internal/catalog"
	"blueprint-studio/internal/config"
	"blueprint-studio/internal/gemini"
	"blueprint-studio/internal/generation"
	"blueprint-studio/internal/httpclient"
	"blueprint-studio/internal/logging"
	"blueprint-studio/internal/product"
	"blueprint-studio/internal/render"
)

// generator is satisfied by *generation.Service.
type generator interface {
	Generate(ctx context.Context, cfg product.Configuration) (generation.Result, error)
}

type deps struct {
	newGenerator func(ctx context.Context, stderr io.Writer) (generator, error)
}

func defaultDeps() deps {
	return deps{newGenerator: newServiceGenerator}
}

func newServiceGenerator(ctx context.Context, stderr io.Writer) (generator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(stderr, cfg.LogLevel)

	gem, err := gemini.New(ctx, gemini.Options{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		BaseURL:     cfg.GeminiBaseURL,
		APIVersion:  cfg.GeminiAPIVersion,
		Temperature: &cfg.GeminiTemperature,
		HTTPClient: httpclient.New(httpclient.Options{
			PreferIPv4: cfg.PreferIPv4,
			Timeout:    cfg.HTTPTimeout,
			UserAgent:  "blueprint-studio-cli",
		}),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return generation.New(generation.Options{Generator: gem, Logger: logger}), nil
}

type outputFlags struct {
	style string
	plain bool
}

func (o outputFlags) write(w io.Writer, markdown string) error {
	if o.plain {
		_, err := io.WriteString(w, markdown)
		return err
	}

	opt := glamour.WithAutoStyle()
	if o.style != "" && o.style != "auto" {
		opt = glamour.WithStandardStyle(o.style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func newRootCmd(d deps) *cobra.Command {
	var out outputFlags

	root := &cobra.Command{
		Use:           "brief",
		Short:         "Compile product files into photography generation directives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&out.style, "style", "auto", "glamour style (auto, dark, light, notty)")
	root.PersistentFlags().BoolVar(&out.plain, "plain", false, "print raw markdown")

	root.AddCommand(
		newCategoriesCmd(),
		newCompileCmd(&out),
		newGenerateCmd(d, &out),
	)
	return root
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories and their smart defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, c := range catalog.Categories() {
				intel, ok := catalog.IntelligenceFor(c)
				if !ok {
					fmt.Fprintln(w, c)
					continue
				}
				fmt.Fprintf(w, "%s\t[%s, %s, creative %d]\n", c, intel.PhysicalForm, intel.LightingStyle, intel.CreativeLevel)
			}
			return nil
		},
	}
}

func newCompileCmd(out *outputFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the generation directive for a product file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(file)
			if err != nil {
				return err
			}
			b := generation.New(generation.Options{}).Compile(cfg)
			return out.write(cmd.OutOrStdout(), render.Directive(b))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "product YAML file (- for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newGenerateCmd(d deps, out *outputFlags) *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate photography blueprints for a product file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(file)
			if err != nil {
				return err
			}
			if err := cfg.RequireName(); err != nil {
				return err
			}

			gen, err := d.newGenerator(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			res, err := gen.Generate(cmd.Context(), cfg)
			if err != nil {
				var gerr *gemini.Error
				if errors.As(err, &gerr) {
					return fmt.Errorf("%w\n%s", err, gerr.UserMessage())
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res.Variants)
			}
			return out.write(cmd.OutOrStdout(), render.Markdown(res.Variants))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "product YAML file (- for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print variants as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
