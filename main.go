package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/api"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/cli"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/config"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/ctxlog"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/format"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/routes"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/stations"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/wiki"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out, logOut io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cli.NewLogger(logOut, opts)
	slog.SetDefault(logger)
	ctx = ctxlog.WithLogger(ctx, logger)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, opts)

	mode, err := routes.ParseVisitMode(cfg.Routes.VisitMode)
	if err != nil {
		return err
	}

	source := wiki.NewSource(
		wiki.NewPageFetcher(cfg.Source),
		wiki.NewPageCache(cfg.Source.CachePath),
		opts.Update,
	)
	doc, err := source.Document(ctx)
	if err != nil {
		return fmt.Errorf("load train travel page: %w", err)
	}

	net, err := graph.NewBuilder(cfg.Source.CellSelector).Build(doc)
	if err != nil {
		return fmt.Errorf("build station graph: %w", err)
	}
	logger.Info("Station graph built.",
		"stations", len(net.Stations),
		"sources", len(net.Graph),
		"edges", net.Graph.EdgeCount(),
	)

	db := stations.NewStationDB(net)
	printer := format.NewPrinter(cfg.Display.Language)

	switch {
	case opts.List:
		for _, name := range db.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	case opts.Serve:
		return serve(ctx, cfg, net, db, api.Options{
			Limit:     cfg.Routes.Limit,
			VisitMode: mode,
			CacheTTL:  cfg.Routes.CacheTTL,
			Printer:   printer,
			Logger:    logger,
		})
	}

	if opts.From == "" || opts.To == "" {
		return &cli.ExitError{Code: 2, Message: format.MissingStationsMessage}
	}
	from := resolve(db, opts.From)
	to := resolve(db, opts.To)
	logger.Debug("Finding routes.", "from", from, "to", to, "mode", mode)

	ranked := routes.Query(net.Graph, from, to, cfg.Routes.Limit, routes.WithVisitMode(mode))
	return printer.Routes(out, ranked)
}

func applyOverrides(cfg *config.Config, opts *cli.Options) {
	if opts.Limit > 0 {
		cfg.Routes.Limit = opts.Limit
	}
	if opts.Permissive {
		cfg.Routes.VisitMode = routes.Permissive.String()
	}
	switch {
	case opts.Lang != "":
		cfg.Display.Language = opts.Lang
	case cfg.Display.Language == "":
		cfg.Display.Language = format.LanguageFromEnv()
	}
}

// resolve accepts partial station names; unknown input is passed through
// so the query reports no routes.
func resolve(db *stations.StationDB, input string) string {
	if name, ok := db.Resolve(input); ok {
		return name
	}
	return input
}

func serve(ctx context.Context, cfg *config.Config, net *graph.Network, db *stations.StationDB, opts api.Options) error {
	server := api.NewServer(cfg.Server.Port, api.NewHandler(net, db, opts))

	errCh := make(chan error, 1)
	go func() {
		opts.Logger.Info("Server listening.", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	opts.Logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
