// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/form"
	"github.com/z5labs/formstate/internal/try"
	"github.com/z5labs/formstate/pkg/maskslog"
	"github.com/z5labs/formstate/pkg/otelslog"
	"github.com/z5labs/formstate/pkg/slogfield"
	"github.com/z5labs/formstate/source"
	"github.com/z5labs/formstate/validate"
	"github.com/z5labs/formstate/validate/jsonschema"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// IssuesFoundError is returned when the document is not valid.
type IssuesFoundError struct {
	Count int
}

// Error implements the error interface.
func (e IssuesFoundError) Error() string {
	return fmt.Sprintf("found %d issue(s)", e.Count)
}

type flags struct {
	schema   string
	template bool
	trace    bool
	verbose  bool
	mask     []string
}

func buildCmd() *cobra.Command {
	var fs flags
	var tp trace.TracerProvider = noop.NewTracerProvider()
	var shutdown func(context.Context) error

	cmd := &cobra.Command{
		Use:           "formcheck [flags] DOCUMENT",
		Short:         "Validate a YAML or JSON document against a JSON Schema",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !fs.trace {
				return nil
			}

			exp, err := stdouttrace.New(
				stdouttrace.WithWriter(cmd.ErrOrStderr()),
			)
			if err != nil {
				return err
			}

			sdktp := sdktrace.NewTracerProvider(
				sdktrace.WithSyncer(exp),
			)
			tp = sdktp
			shutdown = sdktp.Shutdown
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd.ErrOrStderr(), fs)
			if err != nil {
				return err
			}
			return check(cmd.Context(), cmd.OutOrStdout(), log, tp, fs, args[0])
		},
		PostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&fs.schema, "schema", "", "path to the JSON Schema document")
	cmd.Flags().BoolVar(&fs.template, "template", false, "render the document as a text/template before parsing it")
	cmd.Flags().BoolVar(&fs.trace, "trace", false, "write traces to stderr")
	cmd.Flags().BoolVarP(&fs.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringSliceVar(&fs.mask, "mask", nil, "redact logged values at or below these paths, e.g. user.password")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func newLogger(w io.Writer, fs flags) (*slog.Logger, error) {
	level := slog.LevelWarn
	if fs.verbose {
		level = slog.LevelDebug
	}

	opts := make([]maskslog.Option, 0, len(fs.mask))
	for _, s := range fs.mask {
		p, err := fieldpath.Parse(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, maskslog.Path(p))
	}

	var otelOpts []otelslog.Option
	if fs.trace {
		otelOpts = append(otelOpts, otelslog.SpanEvents(slog.LevelDebug))
	}

	// masking wraps the trace bridge so span events never see masked values
	var h slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	h = otelslog.NewHandler(h, otelOpts...)
	h = maskslog.NewHandler(h, opts...)
	return slog.New(h), nil
}

func check(ctx context.Context, out io.Writer, log *slog.Logger, tp trace.TracerProvider, fs flags, document string) error {
	ctx, span := tp.Tracer("github.com/z5labs/formstate/cmd/formcheck").Start(ctx, "formcheck.check")
	defer span.End()

	schema, err := readSchema(fs.schema)
	if err != nil {
		return err
	}

	f, err := form.New(
		form.InitialSources(documentSource(document, fs.template)),
		form.Schemas(schema),
		form.Logger(log),
		form.TracerProvider(tp),
	)
	if err != nil {
		return err
	}

	issues, err := f.Validate(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to validate document", slogfield.String("document", document), slogfield.Error(err))
		return err
	}

	for _, issue := range issues {
		v, _ := f.Value(issue.Path)
		log.DebugContext(
			ctx,
			"found issue",
			slogfield.Path(maskslog.PathKey, issue.Path),
			slogfield.Any(maskslog.ValueKey, v),
			slogfield.String("message", issue.Message),
		)
	}

	printIssues(out, issues)
	if len(issues) > 0 {
		return IssuesFoundError{Count: len(issues)}
	}
	return nil
}

func readSchema(path string) (s *jsonschema.Schema, err error) {
	r := openFile(path)
	defer try.Close(&err, r)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return jsonschema.New(r, jsonschema.URL("file://"+filepath.ToSlash(abs)))
}

func documentSource(path string, template bool) source.Source {
	var r io.Reader = openFile(path)
	if template {
		r = source.RenderTextTemplate(r, source.TemplateFunc("env", os.Getenv))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return source.FromJson(r)
	default:
		return source.FromYaml(r)
	}
}

func openFile(path string) *source.FileReader {
	return source.NewFileReader(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func printIssues(out io.Writer, issues []validate.Issue) {
	slices.SortFunc(issues, func(a, b validate.Issue) int {
		if c := a.Path.Compare(b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Message, b.Message)
	})
	for _, issue := range issues {
		fmt.Fprintln(out, issue)
	}
}
