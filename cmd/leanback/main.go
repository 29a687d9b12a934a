package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/qepting91/reddit-leanback/internal/auth"
	"github.com/qepting91/reddit-leanback/internal/collector"
	"github.com/qepting91/reddit-leanback/internal/config"
	"github.com/qepting91/reddit-leanback/internal/domain"
	"github.com/qepting91/reddit-leanback/internal/playlist"
	"github.com/qepting91/reddit-leanback/internal/report"
	"github.com/qepting91/reddit-leanback/internal/storage"
	"github.com/qepting91/reddit-leanback/internal/youtube"
	"google.golang.org/api/option"
)

const usage = `usage: leanback [flags] <email> <password>

Copies video links from subreddit listings into YouTube playlists.

flags:
`

func main() {
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the parsed command line.
type options struct {
	configPath  string
	journalPath string
	reportPath  string
	creds       auth.Credentials
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("leanback", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.configPath, "config", "", "config file (default "+config.DefaultPath+" or $LEANBACK_CONFIG)")
	fs.StringVar(&o.journalPath, "journal", "data/added.ndjson", "append added videos to this NDJSON file (empty disables)")
	fs.StringVar(&o.reportPath, "report", "", "write an HTML chart report of the run to this file")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return o, errors.New("expected <email> <password>")
	}
	o.creds = auth.Credentials{Email: fs.Arg(0), Password: fs.Arg(1)}
	return o, nil
}

func newLogger(format string, w io.Writer) *slog.Logger {
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, nil))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// 1. Setup
	o, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "leanback:", err)
		}
		return 1
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "leanback:", err)
		return 1
	}
	if _, err := os.Stat(cfg.KeyFile); err != nil {
		fmt.Fprintf(stderr, "leanback: key file %s not found; place the OAuth client secrets JSON there or set key_file\n", cfg.KeyFile)
		return 1
	}

	runID := uuid.NewString()
	logger := newLogger(cfg.LogFormat, stdout).With("run_id", runID)
	slog.SetDefault(logger)

	// 2. Sign in
	authn, err := auth.NewAuthenticator(cfg.KeyFile, cfg.TokenDir)
	if err != nil {
		logger.Error("Failed to read key file", "error", err)
		return 1
	}
	sess, err := login(ctx, authn, o.creds, stdin, stderr)
	if err != nil {
		logger.Error("Authentication failed", "error", err)
		return 1
	}

	yt, err := youtube.New(ctx, option.WithHTTPClient(sess.Client(ctx)))
	if err != nil {
		logger.Error("Failed to create playlist service", "error", err)
		return 1
	}
	yt.Privacy = cfg.Privacy

	// 3. Initialize Client (Using Factory)
	client, err := collector.NewCollector(cfg.CollectorOptions())
	if err != nil {
		logger.Error("Failed to initialize collector", "error", err)
		return 1
	}
	logger.Info("Collector initialized", "mode", cfg.CollectorMode)

	proc := &playlist.Processor{
		Collector:    client,
		Playlists:    yt,
		Pacer:        playlist.NewPacer(cfg.PaceDelay),
		Domains:      cfg.Domains,
		ListingLimit: cfg.ListingLimit,
		Logger:       logger,
	}

	if o.journalPath != "" {
		journal, err := storage.OpenJournal(o.journalPath, runID)
		if err != nil {
			logger.Error("Failed to open journal", "error", err)
			return 1
		}
		defer journal.Close()
		proc.OnAdd = func(a domain.Addition) {
			if err := journal.Record(a); err != nil {
				logger.Warn("Journal write failed", "video_id", a.VideoID, "error", err)
			}
		}
	}

	// 4. Sync
	syncer := &playlist.Syncer{Playlists: yt, Processor: proc, Logger: logger, RunID: runID}
	summary, runErr := syncer.Run(ctx, cfg.Playlists)

	for _, p := range summary.Playlists {
		logger.Info("Playlist summary", "playlist", p.Name, "uri", p.HandleURI, "created", p.Created, "existing", p.Existing, "added", p.Added)
	}

	// 5. Report (opt-in)
	if o.reportPath != "" {
		if err := report.WriteFile(o.reportPath, summary); err != nil {
			logger.Warn("Report failed", "path", o.reportPath, "error", err)
		} else {
			logger.Info("Report written", "path", o.reportPath)
		}
	}

	if runErr != nil {
		logger.Error("Sync aborted", "error", runErr)
		return 1
	}
	return 0
}

// login signs in, answering at most one challenge from stdin.
func login(ctx context.Context, authn *auth.Authenticator, creds auth.Credentials, stdin io.Reader, prompt io.Writer) (*auth.Session, error) {
	sess, err := authn.Login(ctx, creds)
	var ch *auth.ChallengeError
	if !errors.As(err, &ch) {
		return sess, err
	}

	fmt.Fprintf(prompt, "Authorize this program by visiting:\n\n  %s\n\nthen paste the code (or the full redirect URL): ", ch.URL)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read challenge response: %w", err)
	}
	return authn.Answer(ctx, creds, ch, strings.TrimSpace(line))
}
