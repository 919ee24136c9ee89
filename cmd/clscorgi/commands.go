package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clscor/clscorgi/catalog"
	"github.com/clscor/clscorgi/config"
	"github.com/clscor/clscorgi/export"
	"github.com/clscor/clscorgi/fetch"
	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocab/parser"
)

// withCatalog loads the app and catalog and runs fn.
func withCatalog(cmd *cobra.Command, flags *globalFlags, fn func(*app, *catalog.Catalog) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	return fn(a, c)
}

func writeValue(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func resolveCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Show the concept with the given URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, flags, func(_ *app, c *catalog.Catalog) error {
				concept, _, err := c.Resolve(args[0])
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), concept, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of YAML")
	return cmd
}

func schemeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scheme <uri>",
		Short: "List the concepts of a scheme in declared order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, flags, func(_ *app, c *catalog.Catalog) error {
				s, name, err := c.Scheme(args[0])
				if err != nil {
					return err
				}
				reg, err := c.Registry(name)
				if err != nil {
					return err
				}
				concepts, err := reg.ByScheme(s.URI)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s, %d concepts)\n", s.Label, name, len(s.Members))
				for concept := range concepts {
					fmt.Fprintf(out, "  %-20s %s\n", concept.PrefLabel, concept.URI)
				}
				return nil
			})
		},
	}
}

func lookupCmd(flags *globalFlags) *cobra.Command {
	var prefOnly bool

	cmd := &cobra.Command{
		Use:   "lookup <vocab> <label>",
		Short: "Find the concepts of a vocabulary carrying a label",
		Long: `Find concepts whose preferred or alternate label equals <label> exactly.
Matching is case-sensitive. Prints one URI per match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, flags, func(_ *app, c *catalog.Catalog) error {
				reg, err := c.Registry(args[0])
				if err != nil {
					return err
				}
				hits := reg.FindByLabel(args[1], vocab.WithAlternates(!prefOnly))
				if len(hits) == 0 {
					return &catalog.TermLookupError{Vocabulary: args[0], Label: args[1]}
				}
				for _, h := range hits {
					fmt.Fprintln(cmd.OutOrStdout(), h.URI)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&prefOnly, "pref-only", false, "Match preferred labels only")
	return cmd
}

func validateCmd(flags *globalFlags) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that vocabulary documents load as one registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newLogger(flags.logLevel)
			parsers := parser.NewLanguageRegistry(language)

			defs := &vocab.Definitions{}
			for _, path := range args {
				d, err := parsers.FileSource(path).Definitions()
				if err != nil {
					return err
				}
				defs.Append(d)
			}

			reg, err := vocab.New(defs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d concepts in %d schemes\n", reg.Len(), len(reg.Schemes()))
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", parser.DefaultLanguage, "Label language (empty accepts all)")
	return cmd
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		format  string
		profile string
		names   []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize vocabularies to RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := export.GetFormatInfo(export.Format(format)); !ok {
				return fmt.Errorf("unknown format %q (want one of %v)", format, export.FormatNames())
			}
			return withCatalog(cmd, flags, func(a *app, c *catalog.Catalog) error {
				e, err := export.NewRDFExporter(export.Profile(profile), a.cfg.Language)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					names = c.Names()
				}
				for _, name := range names {
					reg, err := c.Registry(name)
					if err != nil {
						return err
					}
					e.AddRegistry(reg)
				}

				out, err := e.Export(export.Format(format))
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = io.WriteString(cmd.OutOrStdout(), out)
					return err
				}
				return os.WriteFile(output, []byte(out), 0644)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "Output format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profile, "profile", string(export.ProfileCRM), "Export profile (crm, skos)")
	cmd.Flags().StringSliceVar(&names, "vocab", nil, "Vocabularies to export (default all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func pullCmd(flags *globalFlags) *cobra.Command {
	var urls []string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download remote vocabularies into the document store",
		Long: `Download vocabulary documents, check that each loads as a registry,
and store them. URLs come from --url, else from the url field of configured
vocabularies, else the published CLSCor vocabularies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.store == nil {
				return errors.New("pull requires storage.backend to be bolt or nats")
			}

			if len(urls) == 0 {
				urls = a.cfg.PullURLs()
			}
			if len(urls) == 0 {
				urls = fetch.DefaultURLs
			}
			targets, err := fetch.TargetsFromURLs(urls)
			if err != nil {
				return err
			}

			puller := fetch.NewPuller(a.store,
				fetch.WithParsers(parser.NewLanguageRegistry(a.cfg.Language)),
				fetch.WithLogger(a.logger))
			results, err := puller.PullAll(ctx, targets)
			for _, r := range results {
				state := "updated"
				if !r.Changed {
					state = "unchanged"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-9s %d concepts  %s\n", r.Name, state, r.Concepts, r.Hash[:12])
			}
			return err
		},
	}
	cmd.Flags().StringSliceVar(&urls, "url", nil, "Vocabulary URLs to pull")
	return cmd
}

func initCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.NewLoader(newLogger(flags.logLevel)).EnsureUserConfig()
		},
	}
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
