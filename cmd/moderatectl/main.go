package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/bootstrap"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/cache"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/config"
	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

// exitFlagged is returned by check when any provider flagged the text
const exitFlagged = 2

type pipelineLoader func(verbose bool) (*bootstrap.Moderation, error)

func main() {
	newApp(loadPipeline).RunAndExitOnError()
}

func newApp(load pipelineLoader) *cli.App {
	app := &cli.App{
		Name:  "moderatectl",
		Usage: "run text through the configured moderation providers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log provider calls to stderr",
			},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:      "check",
			Usage:     "moderate text given as argument, or read from stdin",
			ArgsUsage: "[<text>|-]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "pretty",
					Usage: "indent JSON output",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "overall deadline for the request",
				},
			},
			Action: func(cctx *cli.Context) error {
				return runCheck(cctx, load)
			},
		},
		{
			Name:   "providers",
			Usage:  "list the enabled moderation providers",
			Action: func(cctx *cli.Context) error { return runProviders(cctx, load) },
		},
	}
	return app
}

func runCheck(cctx *cli.Context, load pipelineLoader) error {
	text, err := readText(cctx)
	if err != nil {
		return err
	}

	moderation, err := load(cctx.Bool("verbose"))
	if err != nil {
		return err
	}

	ctx := cctx.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if d := cctx.Duration("timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	output, err := moderation.Usecase.Moderate(ctx, usecase.NewModerateInput(text))
	if err != nil {
		return err
	}
	if err := writeJSON(cctx.App.Writer, output, cctx.Bool("pretty")); err != nil {
		return err
	}
	if output.Flagged {
		return cli.Exit("", exitFlagged)
	}
	return nil
}

func runProviders(cctx *cli.Context, load pipelineLoader) error {
	moderation, err := load(cctx.Bool("verbose"))
	if err != nil {
		return err
	}
	for _, p := range moderation.Usecase.ListProviders(cctx.Context).Models {
		fmt.Fprintf(cctx.App.Writer, "%s\t%s\n", p.ID, p.Name)
	}
	return nil
}

func readText(cctx *cli.Context) (string, error) {
	if cctx.NArg() > 1 {
		return "", fmt.Errorf("expected a single text argument, quote the text")
	}
	if s := cctx.Args().First(); s != "" && s != "-" {
		return s, nil
	}
	b, err := io.ReadAll(cctx.App.Reader)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func loadPipeline(verbose bool) (*bootstrap.Moderation, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := zap.NewNop()
	if verbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if log, err = zcfg.Build(); err != nil {
			return nil, err
		}
	}

	var redisClient *redis.Client
	if bootstrap.NeedsRedis(cfg) {
		if redisClient, err = cache.NewRedisClient(&cfg.Redis); err != nil {
			fmt.Fprintf(os.Stderr, "redis unavailable, caching disabled: %v\n", err)
			cfg.Moderation.CacheTTL = 0
		}
	}

	return bootstrap.NewModeration(cfg, redisClient, log)
}
