package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docmirror"
	"github.com/fwojciec/docmirror/fs"
	"github.com/fwojciec/docmirror/gemini"
	"github.com/fwojciec/docmirror/goquery"
	dochttp "github.com/fwojciec/docmirror/http"
	"github.com/fwojciec/docmirror/htmltomarkdown"
	"github.com/fwojciec/docmirror/index"
	docslog "github.com/fwojciec/docmirror/slog"
	"github.com/fwojciec/docmirror/sqlite"
	"github.com/fwojciec/docmirror/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Data directory holding the registry state and exports.
	// Set before calling Run().
	DataDir string

	// Database path for the content store. Set before calling Run().
	DBPath string

	// SQLite database backing the content store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	State    docmirror.StateService
	Contents docmirror.ContentStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dataDir := defaultDataDir()
	return &Main{
		DataDir: dataDir,
		DBPath:  defaultDBPath(dataDir),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docmirror"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docmirror --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open the content database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCMIRROR_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	contents, err := sqlite.NewContentStore(ctx, m.DB)
	if err != nil {
		return fmt.Errorf("failed to open content store: %w", err)
	}
	m.Contents = contents

	// Load the source registry
	state := fs.NewStateService(filepath.Join(m.DataDir, "state.json"))
	if err := state.Load(ctx); err != nil {
		return fmt.Errorf("failed to load registry state: %w", err)
	}
	m.State = state

	deps.DB = m.DB
	deps.State = m.State
	deps.Contents = m.Contents
	deps.Mirror = fs.NewMirror(filepath.Join(m.DataDir, "mirror"), m.Contents)

	logger := newLogger(stderr)

	// Wire command-specific dependencies based on command
	if cmd == "index" || cmd == "serve" {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		fetcher := dochttp.NewFetcher(
			dochttp.WithPipeline(trafilatura.NewExtractor(), htmltomarkdown.NewConverter()),
		)
		discoverer := dochttp.NewDiscoverer(nil, goquery.NewLinkExtractor())

		deps.Indexer = &index.Indexer{
			Fetcher:     docslog.NewLoggingFetcher(fetcher, logger),
			Summarizer:  docslog.NewLoggingSummarizer(gemini.NewSummarizer(client), logger),
			Contents:    m.Contents,
			State:       m.State,
			Limiter:     index.NewDomainLimiter(1.0),
			Discoverer:  docslog.NewLoggingDiscoverer(discoverer, logger),
			Concurrency: cli.Index.Concurrency,
		}
	}

	if cmd == "ask" || cmd == "serve" {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		deps.Asker = &index.Asker{
			State:    m.State,
			Contents: m.Contents,
			Answerer: gemini.NewAnswerer(client),
		}
	}

	return kongCtx.Run(deps)
}

// geminiClient connects to the Gemini API using GEMINI_API_KEY.
func geminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// newLogger builds the CLI logger. DOCMIRROR_LOG=debug enables fetch
// level logging.
func newLogger(stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DOCMIRROR_LOG") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func defaultDataDir() string {
	if dir := os.Getenv("DOCMIRROR_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docmirror"
	}
	dir := filepath.Join(home, ".docmirror")
	_ = os.MkdirAll(dir, 0755)
	return dir
}

func defaultDBPath(dataDir string) string {
	if path := os.Getenv("DOCMIRROR_DB"); path != "" {
		return path
	}
	return filepath.Join(dataDir, "contents.db")
}
