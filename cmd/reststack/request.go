package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/reststack/component"
	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/logger"
	"github.com/kbukum/reststack/observability"
	"github.com/kbukum/reststack/rest"
	"github.com/kbukum/reststack/serializer"
	"github.com/kbukum/reststack/validation"
)

// request is one call as given on the command line.
type request struct {
	method    string
	target    string
	data      string
	hasBody   bool
	mediaType string
}

// newFetchCmd builds a command for a verb without a request body.
func newFetchCmd(f *flags, method, short string) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(method) + " <uri>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, request{method: method, target: args[0]})
		},
	}
}

// newSendCmd builds a command for a verb with a request body.
func newSendCmd(f *flags, method, short string) *cobra.Command {
	var data, mediaType string

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <uri>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appErr := validation.New().MediaType("media-type", mediaType).Validate(); appErr != nil {
				return usageError(appErr)
			}
			body, err := readData(cmd.InOrStdin(), data)
			if err != nil {
				return usageError(err)
			}
			return run(cmd, f, request{
				method:    method,
				target:    args[0],
				data:      body,
				hasBody:   true,
				mediaType: mediaType,
			})
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body; @path reads a file, - reads stdin")
	cmd.Flags().StringVar(&mediaType, "media-type", "", "Request media type (default from --format)")
	return cmd
}

func readData(stdin io.Reader, data string) (string, error) {
	switch {
	case data == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return "", fmt.Errorf("read --data file: %w", err)
		}
		return string(b), nil
	default:
		return data, nil
	}
}

// run performs one call through a client managed by a component registry.
func run(cmd *cobra.Command, f *flags, req request) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if appErr := validation.New().Required("uri", req.target).Validate(); appErr != nil {
		return usageError(appErr)
	}

	opts := make([]rest.Option, 0, len(f.headers)+1)
	for _, h := range f.headers {
		k, v, err := parseHeader(h)
		if err != nil {
			return usageError(err)
		}
		opts = append(opts, rest.WithHeader(k, v))
	}

	cfg, err := loadConfig(f, req.target)
	if err != nil {
		return &exitError{code: exitConfigError, err: err}
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr())
	shutdown, err := initTelemetry(ctx, cfg, log)
	if err != nil {
		return &exitError{code: exitConfigError, err: err}
	}
	defer shutdown()

	opts = append(opts, rest.WithLogger(log))
	reg := component.NewRegistry(log)
	api := rest.NewComponent("api", cfg.Client, opts...)
	if err := reg.Register(api); err != nil {
		return &exitError{code: exitConfigError, err: err}
	}
	if err := reg.StartAll(ctx); err != nil {
		return &exitError{code: exitConfigError, err: err}
	}
	defer func() { _ = reg.StopAll(context.Background()) }()

	client, err := api.Client()
	if err != nil {
		return &exitError{code: exitConfigError, err: err}
	}

	res, body, err := dispatch(ctx, client, f.format, req)
	if err != nil {
		return err
	}
	return report(cmd, f, res, body)
}

// dispatch picks the serializers for format. JSON and YAML bodies are parsed
// into generic documents and re-rendered; XML and raw bodies pass through.
func dispatch(ctx context.Context, c *rest.Client, format string, req request) (rest.Result, string, error) {
	switch format {
	case formatJSON:
		return call[any](ctx, c, req,
			serializer.NewJSON[any](serializer.WithUseNumber()),
			serializer.NewJSON[any](serializer.WithIndent("", "  ")))
	case formatYAML:
		y := serializer.NewYAML[any]()
		return call[any](ctx, c, req, y, y)
	case formatXML:
		if req.mediaType == "" {
			req.mediaType = "application/xml"
		}
		raw := serializer.NewRaw(nil)
		return call[string](ctx, c, req, raw, raw)
	default:
		raw := serializer.NewRaw(nil)
		return call[string](ctx, c, req, raw, raw)
	}
}

// call issues req with s and renders a successful payload with out.
func call[T any](ctx context.Context, c *rest.Client, req request, s, out serializer.Serializer[T]) (rest.Result, string, error) {
	var resp rest.Response[T]
	switch {
	case req.method == http.MethodDelete:
		return rest.Delete(ctx, c, req.target), "", nil
	case !req.hasBody:
		resp = rest.Get(ctx, c, req.target, s)
	default:
		var body T
		if req.data != "" {
			v, err := s.Deserialize(req.data)
			if err != nil {
				return rest.Result{}, "", usageError(fmt.Errorf("invalid --data: %w", err))
			}
			body = v
		}
		if req.method == http.MethodPut {
			resp = rest.Put(ctx, c, req.target, body, req.mediaType, s)
		} else {
			resp = rest.Post(ctx, c, req.target, body, req.mediaType, s)
		}
	}
	if !resp.Success {
		return resp.Result, "", nil
	}
	text, err := out.Serialize(resp.Data)
	if err != nil {
		return resp.Result, "", &exitError{code: exitTransportFailure, err: errors.Encode(err)}
	}
	return resp.Result, text, nil
}

// initTelemetry installs OTLP tracer and meter providers when enabled and
// returns their shutdown.
func initTelemetry(ctx context.Context, cfg *cliConfig, log *logger.Logger) (func(), error) {
	if !cfg.Telemetry.Enabled {
		return func() {}, nil
	}
	tp, err := observability.InitTracer(ctx, cfg.Telemetry.tracer(cfg.Name, cfg.Environment), log)
	if err != nil {
		return nil, err
	}
	mp, err := observability.InitMeter(ctx, cfg.Telemetry.meter(cfg.Name, cfg.Environment), log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(sctx); err != nil {
			log.Warn("meter shutdown failed", logger.ErrorFields("shutdown", err))
		}
		if err := tp.Shutdown(sctx); err != nil {
			log.Warn("tracer shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}, nil
}
