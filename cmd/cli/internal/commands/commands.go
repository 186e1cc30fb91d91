package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/cmd/cli/internal/credentials"
	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// Globals carries the flags shared by every command plus the terminal it
// writes to.
type Globals struct {
	Debug       bool
	Version     string
	Profile     string
	APIURL      string
	Token       string
	ProfilesDir string

	Out io.Writer
	In  io.Reader
	Now func() time.Time
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Globals) in() io.Reader {
	if g.In == nil {
		return os.Stdin
	}
	return g.In
}

func (g *Globals) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Globals) notifier() notify.Notifier {
	return notify.NewLogNotifier(log.Logger, g.out())
}

// API builds the endpoint layer. Configuration comes from the environment,
// then the selected profile, then explicit flags.
func (g *Globals) API() (*api.API, error) {
	cfg, err := client.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || g.Debug

	var opts []client.Option

	profile, err := g.profile()
	if err != nil {
		return nil, err
	}
	if profile != nil {
		cfg.BaseURL = profile.APIURL
	}
	if g.APIURL != "" {
		cfg.BaseURL = g.APIURL
	}

	switch {
	case g.Token != "":
		cfg.Token = g.Token
	case profile != nil:
		store, err := credentials.NewStore(g.ProfilesDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithTokenSource(credentials.NewTokenSource(store, profile.Name)))
	}

	c, err := client.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	log.Debug().Str("baseURL", c.BaseURL()).Msg("api client ready")

	return api.New(c, nil), nil
}

// profile resolves --profile or the default profile. A missing default is not
// an error when a token is given directly or through MENTORHUB_TOKEN.
func (g *Globals) profile() (*credentials.Profile, error) {
	if g.Token != "" && g.Profile == "" {
		return nil, nil
	}

	store, err := credentials.NewStore(g.ProfilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profile store: %w", err)
	}

	p, err := store.Resolve(g.Profile)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, credentials.ErrNoDefaultProfile):
		return nil, nil
	case errors.Is(err, credentials.ErrProfileNotFound):
		return nil, fmt.Errorf("profile %q not found\n\nRun 'mentorhub profiles list' to see available profiles", g.Profile)
	default:
		return nil, err
	}
}

// viewer returns the subject of the active token, used for "mine" filters.
func (g *Globals) viewer() (string, error) {
	token := g.Token
	if token == "" {
		p, err := g.profile()
		if err != nil {
			return "", err
		}
		if p != nil {
			return p.Subject, nil
		}
		cfg, err := client.LoadConfig()
		if err != nil {
			return "", err
		}
		if cfg.Token == "" {
			return "", errors.New("no profile or token configured\n\nAdd one with: mentorhub profiles add <name> --token <token>")
		}
		token = cfg.Token
	}
	info, err := credentials.Inspect(token)
	if err != nil {
		return "", err
	}
	return info.Subject, nil
}

// confirm asks a yes/no question on the terminal. assumeYes skips the prompt.
func (g *Globals) confirm(question string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	fmt.Fprintf(g.out(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(g.in()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// failure turns an inline page error into the command's error.
func failure(message string, retryable bool) error {
	if retryable {
		return fmt.Errorf("%s (try again)", message)
	}
	return errors.New(message)
}

// loadError is the message shown when a single entity cannot be loaded.
func loadError(err error, notFound, fallback string) error {
	var cerr *client.Error
	if client.IsNotFound(err) {
		return errors.New(notFound)
	}
	return failure(client.MessageOf(err, fallback), errors.As(err, &cerr) && cerr.Retryable())
}

// mutated reports a failed mutation as an exit error; the toast has already
// told the user why.
func mutated(ok bool) error {
	if !ok {
		return errors.New("request failed")
	}
	return nil
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func ago(ts models.Timestamp, now time.Time) string {
	return views.Ago(ts.Time, now)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func pageFooter(w io.Writer, shown, fetched int, p models.Pagination) {
	fmt.Fprintf(w, "\n%d shown of %d fetched", shown, fetched)
	if p.TotalPages > 1 {
		fmt.Fprintf(w, " (page %d/%d, %d total)", p.Page, p.TotalPages, p.Total)
	}
	fmt.Fprintln(w)
}

// clearScreen is written between renders in watch mode.
const clearScreen = "\033[2J\033[H"

// WatchFlags are shared by list commands that can follow changes.
type WatchFlags struct {
	Watch    bool          `help:"Re-render when the data changes."`
	Interval time.Duration `help:"Refetch interval in watch mode." default:"30s"`
}
