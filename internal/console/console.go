// Package console is a line oriented command interpreter over a running league.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"dice-league/internal/domain"
	"dice-league/internal/odds"
	"dice-league/internal/service"

	"github.com/go-andiamo/splitter"
	"github.com/rs/zerolog"
)

// ErrQuit is returned by Execute when the user asks to leave.
var ErrQuit = errors.New("quit")

// HistoryStore looks up persisted seasons of competitors that have left the league.
type HistoryStore interface {
	GetByCompetitor(ctx context.Context, runID, name string) ([]domain.SeasonSnapshot, error)
}

type Console struct {
	league *service.LeagueService
	store  HistoryStore
	runID  string
	out    io.Writer
	split  splitter.Splitter
	logger zerolog.Logger
}

// New returns a console writing to out. store may be nil.
func New(league *service.LeagueService, store HistoryStore, runID string, out io.Writer, logger zerolog.Logger) (*Console, error) {
	split, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to build command splitter: %w", err)
	}
	return &Console{
		league: league,
		store:  store,
		runID:  runID,
		out:    out,
		split:  split,
		logger: logger,
	}, nil
}

// Run executes commands read from in until EOF, /quit or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(c.out, `Type "/help" for a list of commands.`)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.Execute(ctx, scanner.Text()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// Execute runs one command line. Lookup and argument errors are printed and
// do not stop the console.
func (c *Console) Execute(ctx context.Context, line string) error {
	args, err := c.parse(line)
	if err != nil {
		fmt.Fprintf(c.out, "Could not read command: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	c.logger.Debug().Str("command", cmd).Strs("args", args).Msg("console command")

	switch cmd {
	case "/help":
		c.help()
	case "/profile":
		err = c.profile(args)
	case "/history":
		err = c.history(ctx, args)
	case "/odds":
		err = c.odds(args)
	case "/standings":
		err = c.standings(args)
	case "/quit", "/exit":
		return ErrQuit
	default:
		fmt.Fprintln(c.out, "Invalid command.")
	}
	if err != nil {
		fmt.Fprintln(c.out, err)
	}
	return nil
}

func (c *Console) parse(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	parts, err := c.split.Split(line)
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "\"“”")
		if p != "" {
			args = append(args, p)
		}
	}
	return args, nil
}

func (c *Console) help() {
	fmt.Fprint(c.out, `/help                  list commands
/profile NAME          view the profile of a competitor
/history NAME          view every completed season of a competitor
/odds NAME NAME        match odds between two competitors
/standings [DIVISION]  final tables of the last season
/quit                  leave the console
`)
}

func (c *Console) profile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /profile NAME")
	}
	comp, err := c.league.Lookup(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s's profile:\n", comp.Name)
	fmt.Fprintf(c.out, "Faces: %s (sum %d, average %.1f)\n", comp.FaceString(), comp.Sum(), comp.Average())
	if d := c.league.DivisionOf(comp); d != nil {
		fmt.Fprintf(c.out, "Division: %s (level %d)\n", d.Name, d.Level)
	}
	if len(comp.History) == 0 {
		fmt.Fprintln(c.out, "No completed seasons.")
		return nil
	}
	last := comp.History[len(comp.History)-1]
	fmt.Fprintf(c.out, "Season %d: rank %d in %s, %d-%d-%d, %d pts (%.1f xPts, %+.1f)\n",
		last.Season, last.Rank, last.Division, last.Wins, last.Ties, last.Losses,
		last.Points, last.ExpectedPoints(), last.Deviation())
	fmt.Fprintf(c.out, "History (type \"/history %s\" to see more): %d seasons\n", comp.Name, len(comp.History))
	return nil
}

func (c *Console) history(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /history NAME")
	}
	var snapshots []domain.SeasonSnapshot
	name := args[0]
	comp, err := c.league.Lookup(name)
	switch {
	case err == nil:
		name = comp.Name
		snapshots = c.league.History(comp)
	case c.store != nil:
		stored, serr := c.store.GetByCompetitor(ctx, c.runID, name)
		if serr != nil {
			c.logger.Error().Err(serr).Str("competitor", name).Msg("failed to load stored history")
			return err
		}
		if len(stored) == 0 {
			return err
		}
		name = stored[0].Competitor
		snapshots = stored
	default:
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(c.out, "%s has no completed seasons.\n", name)
		return nil
	}

	fmt.Fprintf(c.out, "%s's history:\n", name)
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Season\tDivision\tRank\tW\tT\tL\tSD\tTR\txPts\tPts\tFaces")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%+d\t%d\t%.1f\t%d\t%s\n",
			s.Season, s.Division, s.Rank, s.Wins, s.Ties, s.Losses,
			s.SideDiff, s.TotalRolled, s.ExpectedPoints(), s.Points, joinFaces(s.Faces))
	}
	return w.Flush()
}

func (c *Console) odds(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: /odds NAME NAME")
	}
	a, err := c.league.Lookup(args[0])
	if err != nil {
		return err
	}
	b, err := c.league.Lookup(args[1])
	if err != nil {
		return err
	}

	wins, ties, losses := odds.Compare(a, b).Counts()
	p := c.league.ComputeOdds(a, b)
	fmt.Fprintf(c.out, "%s [%s] vs %s [%s]\n", a.Name, a.FaceString(), b.Name, b.FaceString())
	fmt.Fprintf(c.out, "Per roll: %d/%d/%d of 36\n", wins, ties, losses)
	fmt.Fprintf(c.out, "Match: %d%% / %d%% / %d%%\n", p.A, p.Tie, p.B)
	return nil
}

func (c *Console) standings(args []string) error {
	var tables []service.Table
	switch len(args) {
	case 0:
		tables = c.league.Standings()
	case 1:
		t, err := c.league.DivisionStandings(args[0])
		if err != nil {
			return err
		}
		tables = []service.Table{t}
	default:
		return errors.New("usage: /standings [DIVISION]")
	}

	for _, t := range tables {
		if t.Season == 0 {
			fmt.Fprintf(c.out, "%s (no season played)\n", t.Division)
		} else {
			fmt.Fprintf(c.out, "%s, season %d\n", t.Division, t.Season)
		}
		w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\t#\tName\tW\tT\tL\tSD\tTR\txPts\tPts\tFaces")
		for _, row := range t.Rows {
			s := row.Snapshot
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\t%+d\t%d\t%.1f\t%d\t%s\n",
				row.Mark, row.Rank, s.Competitor, s.Wins, s.Ties, s.Losses,
				s.SideDiff, s.TotalRolled, s.ExpectedPoints(), s.Points, joinFaces(s.Faces))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func joinFaces(faces []int) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, " ")
}
