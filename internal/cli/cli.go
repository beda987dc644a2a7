package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"msgdict/internal/config"
	"msgdict/internal/store"
	"msgdict/internal/textutil"
	"msgdict/internal/walker"
	"msgdict/internal/worker"
	"msgdict/msg"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "msgdict",
		Short: "Parser and tooling for Fallout-style .MSG localization files",
		Long:  "Parses {index}{}{text} message files into lookup dictionaries, validates whole game text trees, and exports or ingests their contents for translation tooling.",
	}

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(ingestCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Parse a .MSG file or directory tree and report errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print every entry of one .MSG file as [index][sub] \"value\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <directory>",
		Short: "Parse a game text tree and export all entries to a corpus file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, _ := cmd.Flags().GetString("format")
			exportPath, _ := cmd.Flags().GetString("output")
			return runExport(args[0], exportFormat, exportPath)
		},
	}

	cmd.Flags().String("format", "tsv", "Export format: tsv or json")
	cmd.Flags().String("output", "msg_corpus", "Output path for the corpus (without extension)")

	return cmd
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Parse a game text tree and store all entries in PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(args[0])
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// collectFiles resolves a path to the list of .MSG files it covers: the path
// itself when it is a file, the walked tree when it is a directory.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return walker.Walk(path)
}

// parseAll parses files concurrently, one dictionary per file.
func parseAll(ctx context.Context, cfg *config.Config, conv msg.Converter, files []string) []worker.Task[string, *msg.Dictionary] {
	pool := worker.NewPool[string, *msg.Dictionary](cfg.WorkerCount,
		func(ctx context.Context, path string) (*msg.Dictionary, error) {
			return msg.ParseFileWith(path, conv)
		},
	)
	return pool.Execute(ctx, files)
}

// flatten converts one parsed dictionary into storable records, keyed by the
// file path relative to root.
func flatten(root, file string, dict *msg.Dictionary) []store.EntryRecord {
	name := file
	if rel, err := filepath.Rel(root, file); err == nil {
		name = rel
	}

	var records []store.EntryRecord
	for _, index := range dict.Indexes() {
		for sub := uint32(0); ; sub++ {
			v, ok := dict.Get(index, sub)
			if !ok {
				break
			}
			records = append(records, store.NewRecord(name, index, sub, v))
		}
	}
	return records
}

// runCheck handles the `check` command.
func runCheck(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	conv, err := cfg.Converter()
	if err != nil {
		return err
	}

	files, err := collectFiles(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("path", path).Msg("No msg files found")
		return nil
	}

	failed := 0
	for _, task := range parseAll(ctx, cfg, conv, files) {
		if task.Err != nil {
			failed++
			log.Error().Err(task.Err).Str("file", task.Input).Msg("Parse failed")
			continue
		}
		log.Info().Str("file", task.Input).Int("entries", task.Result.Len()).Msg("Parsed")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(files))
	}

	log.Info().Int("files", len(files)).Msg("All files parsed cleanly")
	return nil
}

// runDump handles the `dump` command.
func runDump(path string) error {
	cfg := config.Load()
	conv, err := cfg.Converter()
	if err != nil {
		return err
	}

	dict, err := msg.ParseFileWith(path, conv)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, index := range dict.Indexes() {
		for sub := uint32(0); ; sub++ {
			v, ok := dict.Get(index, sub)
			if !ok {
				break
			}
			if text, isText := v.Text(); isText {
				fmt.Printf("[%d][%d] %q\n", index, sub, text)
			} else {
				fmt.Printf("[%d][%d] %q (raw)\n", index, sub, v.Raw())
			}
		}
	}

	return nil
}

// collectRecords parses a tree and flattens every dictionary into records.
func collectRecords(ctx context.Context, cfg *config.Config, dir string) ([]store.EntryRecord, error) {
	conv, err := cfg.Converter()
	if err != nil {
		return nil, err
	}

	files, err := walker.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("walk input directory: %w", err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	var records []store.EntryRecord
	failed := 0
	for _, task := range parseAll(ctx, cfg, conv, files) {
		if task.Err != nil {
			failed++
			log.Error().Err(task.Err).Str("file", task.Input).Msg("Parse failed")
			continue
		}
		records = append(records, flatten(root, task.Input, task.Result)...)
	}

	if failed > 0 {
		return nil, fmt.Errorf("%d of %d files failed to parse", failed, len(files))
	}

	log.Info().Int("files", len(files)).Int("entries", len(records)).Msg("Parsed msg tree")
	return records, nil
}

// runExport handles the `export` command.
func runExport(dir, exportFormat, exportPath string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	records, err := collectRecords(ctx, cfg, dir)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		if err := store.WriteJSON(exportPath+".json", records); err != nil {
			return fmt.Errorf("export JSON: %w", err)
		}
	default:
		if err := store.WriteTSV(exportPath+".tsv", records); err != nil {
			return fmt.Errorf("export TSV: %w", err)
		}
	}

	return nil
}

// runIngest handles the `ingest` command.
func runIngest(dir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	records, err := collectRecords(ctx, cfg, dir)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Warn().Str("dir", dir).Msg("Nothing to ingest")
		return nil
	}

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect PostgreSQL: %w", err)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	st := store.New(pgPool)
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	inserted, err := st.Upsert(ctx, records)
	if err != nil {
		return fmt.Errorf("ingest msg entries: %w", err)
	}

	sample := ""
	for _, r := range records {
		if r.IsText {
			sample = textutil.Truncate(r.Value, 30)
			break
		}
	}

	log.Info().
		Int("entries", len(records)).
		Int("inserted", inserted).
		Str("sample", sample).
		Msg("Ingestion complete")

	return nil
}
