package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/jusunglee/g2pk/internal/batch"
	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/g2p"
	"github.com/jusunglee/g2pk/internal/logger"
	"github.com/jusunglee/g2pk/internal/repl"
	"github.com/jusunglee/g2pk/internal/resources"
	"github.com/jusunglee/g2pk/internal/store"
	"github.com/jusunglee/g2pk/internal/transliteration"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs_ := ff.NewFlagSet("g2pk")

	var (
		verbose     = fs_.Bool('v', "verbose", "Print every rule application to stderr")
		descriptive = fs_.Bool('d', "descriptive", "Apply descriptive (colloquial) rules as well")
		groupVowels = fs_.BoolLong("group-vowels", "Merge ㅐ/ㅔ and ㅒ/ㅖ")
		phonemes    = fs_.BoolLong("phonemes", "Print conjoining jamo instead of syllables")
		romanize    = fs_.BoolLong("romanize", "Also print the romanized pronunciation")
		interactive = fs_.BoolLong("interactive", "Start the interactive terminal mode")
		batchFile   = fs_.StringLong("batch", "", "Transcribe one sentence per line from FILE (- for stdin)")
		workers     = fs_.IntLong("workers", 0, "Concurrent lines in batch mode (0 for GOMAXPROCS)")
		databaseURL = fs_.StringLong("database-url", "", "Store transcriptions in sqlite:// or postgres:// URL")
		dataDir     = fs_.StringLong("data-dir", "", "Load rule tables and dictionaries from a directory")
	)

	if err := ff.Parse(fs_, os.Args[1:], ff.WithEnvVarPrefix("G2PK")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs_))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.Init()

	engine, err := loadEngine(*dataDir, log)
	if err != nil {
		return err
	}

	if *interactive {
		return repl.Run(engine)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo db.Repository
	if *databaseURL != "" {
		repo, err = store.Open(ctx, *databaseURL)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer repo.Close()
		log.DebugContext(ctx, "opened transcription store", "postgres", store.IsPostgres(*databaseURL))
	}
	transcriber := g2p.NewCachedTranscriber(engine, repo, log)

	opts := g2p.Options{
		Descriptive: *descriptive,
		Verbose:     *verbose,
		GroupVowels: *groupVowels,
		ToSyllable:  !*phonemes,
	}

	if *batchFile != "" {
		in, closeIn, err := openInput(*batchFile)
		if err != nil {
			return err
		}
		defer closeIn()

		// traces are per sentence; batch output stays one line per input
		opts.Verbose = false
		runner := &batch.Runner{
			Transcriber: transcriber,
			Options:     opts,
			Workers:     *workers,
			Romanize:    *romanize,
			Log:         log,
		}
		_, err = runner.Run(ctx, in, os.Stdout)
		return err
	}

	text := strings.Join(fs_.GetArgs(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs_))
		return errors.New("no text given")
	}

	res, err := transcriber.Transcribe(ctx, text, opts)
	if err != nil {
		return fmt.Errorf("transcribing: %w", err)
	}
	if res.Trace != nil {
		printTrace(os.Stderr, res.Trace)
	}

	fmt.Println(res.Text)
	if *romanize {
		fmt.Println(transliteration.Romanize(res.Text))
	}
	return nil
}

func loadEngine(dataDir string, log *slog.Logger) (*g2p.Engine, error) {
	if dataDir == "" {
		return g2p.Load(log)
	}
	for _, name := range resources.Files {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err != nil {
			return nil, fmt.Errorf("data directory: %w", err)
		}
	}
	return g2p.LoadFS(os.DirFS(dataDir), log)
}

func openInput(name string) (io.Reader, func(), error) {
	if name == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("opening batch input: %w", err)
	}
	return f, func() { f.Close() }, nil
}
