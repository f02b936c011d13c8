package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tatianab/library-of-memories/internal/chronicle"
	"github.com/tatianab/library-of-memories/internal/config"
	"github.com/tatianab/library-of-memories/internal/engine"
	"github.com/tatianab/library-of-memories/internal/store"
	"github.com/tatianab/library-of-memories/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cmd, args := "play", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "play":
		err = playCmd(cfg, args)
	case "export":
		err = exportCmd(cfg, args)
	case "import":
		err = importCmd(cfg, args)
	case "reset":
		err = resetCmd(cfg, args)
	case "saves":
		err = savesCmd(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want play, export, import, reset or saves)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// keyFlag registers the -key flag shared by every subcommand.
func keyFlag(fs *flag.FlagSet, cfg *config.Config) *string {
	return fs.String("key", cfg.SaveKey, "save key")
}

func openStore(cfg *config.Config) (store.Store, error) {
	return cfg.OpenStore(context.Background())
}

func newLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return log.New(io.Discard), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "library",
		Level:           cfg.Level(),
	})
	return logger, f, nil
}

func playCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	key := keyFlag(fs, cfg)
	_ = fs.Parse(args)

	ctx := context.Background()
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	eng, err := engine.New(s, engine.WithKey(*key), engine.WithLogger(logger))
	if err != nil {
		return err
	}

	var keeper *chronicle.Keeper
	if cfg.NarratorEnabled() {
		gem, err := chronicle.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("narrator disabled", "err", err)
		} else {
			defer gem.Close()
			keeper = chronicle.NewKeeper(s, *key, gem)
		}
	}

	logger.Info("starting", "store", cfg.Store, "key", *key, "narrator", keeper != nil)
	return tui.Run(eng, keeper, logger)
}

func exportCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	key := keyFlag(fs, cfg)
	out := fs.String("out", "", "snapshot file (default stdout)")
	_ = fs.Parse(args)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return store.Export(context.Background(), s, *key, w)
}

func importCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	key := fs.String("key", "", "save key (default: the key recorded in the snapshot)")
	in := fs.String("in", "", "snapshot file (default stdin)")
	_ = fs.Parse(args)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	got, err := store.Import(context.Background(), s, *key, r)
	if err != nil {
		return err
	}
	fmt.Printf("imported %s\n", got)
	return nil
}

func resetCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	key := keyFlag(fs, cfg)
	_ = fs.Parse(args)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	eng, err := engine.New(s, engine.WithKey(*key))
	if err != nil {
		return err
	}
	if _, err := eng.Reset(ctx); err != nil {
		return err
	}
	if err := chronicle.NewKeeper(s, *key, chronicle.Nop{}).Reset(ctx); err != nil {
		return err
	}
	fmt.Printf("reset %s\n", *key)
	return nil
}

func savesCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("saves", flag.ExitOnError)
	_ = fs.Parse(args)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	keys, err := s.Keys(context.Background())
	if err != nil {
		return err
	}
	for _, k := range chronicle.SaveKeys(keys) {
		fmt.Println(k)
	}
	return nil
}
