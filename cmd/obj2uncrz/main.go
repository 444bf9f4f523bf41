// obj2uncrz converts UNDSC scene descriptions and the OBJ geometry they
// reference into UNCRZ segmented mesh files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/obj2uncrz/internal/config"
	"github.com/Faultbox/obj2uncrz/internal/convert"
	"github.com/Faultbox/obj2uncrz/internal/logger"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	inputs := config.Args()
	if len(inputs) == 0 && !config.SaveRequested() {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("saving config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("saved config", zap.String("dir", config.ConfigDir()))
		if len(inputs) == 0 {
			return
		}
	}

	conv := convert.New(convert.Options{
		OutputExt:    cfg.Convert.OutputExt,
		NormalDigits: cfg.Convert.NormalDigits,
		Encoding:     cfg.Convert.InputEncoding,
	}, logger.Named("convert"))

	logger.Info("converting batch", zap.Int("files", len(inputs)), zap.Bool("abort_on_error", cfg.Convert.AbortOnError))
	results, batchErr := conv.ConvertAll(inputs, cfg.Convert.AbortOnError)
	for _, res := range results {
		res.Report(os.Stdout)
	}
	if errors.Is(batchErr, convert.ErrAborted) {
		logger.Warn("batch aborted", zap.Int("converted", len(results)), zap.Int("files", len(inputs)))
	}

	if cfg.Watch.Enabled {
		if err := watch(conv, cfg, results); err != nil {
			logger.Error("watch failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if batchErr != nil {
		logger.Sync()
		os.Exit(1)
	}
}

// watch keeps re-converting inputs as they change until interrupted.
func watch(conv *convert.Converter, cfg *config.Config, results []*convert.Result) error {
	w, err := convert.NewWatcher(conv, cfg.Watch.Debounce, logger.Named("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	for _, res := range results {
		if err := w.Track(res); err != nil {
			return fmt.Errorf("watching %s: %w", res.Input, err)
		}
	}
	w.OnResult = func(res *convert.Result) {
		res.Report(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("watching", zap.Int("descriptions", len(results)), zap.Duration("debounce", cfg.Watch.Debounce))
	fmt.Fprintln(os.Stderr, "Watching for changes, press Ctrl+C to stop")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `obj2uncrz - convert UNDSC descriptions to UNCRZ meshes

Usage:
  obj2uncrz [options] <file.undsc> [file.undsc ...]

Each input is written next to itself with its extension replaced
(default .uncrz). Referenced OBJ and MTL files are resolved relative
to the description.

Options:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  obj2uncrz model.undsc
  obj2uncrz -abort -ext .txt a.undsc b.undsc
  obj2uncrz -watch -debug model.undsc
  obj2uncrz -abort -save-config`)
}
