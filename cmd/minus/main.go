// Command minus is a debugging front end for the rule engine.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TriColor-Initiatives/minus/internal/api"
	"github.com/TriColor-Initiatives/minus/internal/config"
	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/TriColor-Initiatives/minus/internal/render"
	"github.com/sirupsen/logrus"
)

const usage = `usage: minus <command> [flags]

commands:
  deal    shuffle and deal four sorted hands
  legal   list the cards a hand may play into a trick
  winner  decide who takes a trick
  next    print the seat after the given one
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	cfg    config.Config
	rules  *api.Rules
	out    render.Renderer
	stdout io.Writer
	stderr io.Writer
	logger *logrus.Logger
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger.SetOutput(stderr)

	a := &app{
		cfg:    cfg,
		rules:  api.NewRules(cfg.Policy),
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var cmd func([]string) error
	switch args[0] {
	case "deal":
		cmd = a.deal
	case "legal":
		cmd = a.legal
	case "winner":
		cmd = a.winner
	case "next":
		cmd = a.next
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, api.ErrBadRequest) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		logger.WithError(err).WithField("command", args[0]).Error("command failed")
		return 1
	}
	return 0
}

func (a *app) flagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	plain := fs.Bool("plain", false, "disable colour output")
	return fs, plain
}

func (a *app) parse(fs *flag.FlagSet, plain *bool, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	a.out = render.Renderer{Plain: *plain}
	return nil
}

func (a *app) deal(args []string) error {
	fs, plain := a.flagSet("deal")
	seed := fs.Int64("seed", 0, "shuffle seed (0 picks one from the clock)")
	if err := a.parse(fs, plain, args); err != nil {
		return err
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	a.logger.WithField("seed", *seed).Debug("dealing")

	deck := game.NewDeck()
	deck.Shuffle(rand.New(rand.NewSource(*seed)))
	hands := deck.Deal()

	fmt.Fprintln(a.stdout, a.out.Title(fmt.Sprintf("deal (seed %d)", *seed)))
	for seat, hand := range hands {
		game.SortHand(hand)
		fmt.Fprintln(a.stdout, a.out.Seat(game.Seat(seat), hand))
	}
	return nil
}

func (a *app) legal(args []string) error {
	fs, plain := a.flagSet("legal")
	handFlag := fs.String("hand", "", "cards in hand, e.g. 10H,QH,5S")
	trickFlag := fs.String("trick", "", "cards played so far, e.g. 9H@1,KH@2")
	lead := fs.String("lead", "", "lead suit")
	trump := fs.String("trump", "", "trump suit")
	policy := fs.String("policy", "", "follow, beat or beat-lowest (default from config)")
	if err := a.parse(fs, plain, args); err != nil {
		return err
	}

	hand, err := game.ParseHand(*handFlag)
	if err != nil {
		return fmt.Errorf("%w: -hand: %v", errUsage, err)
	}
	trick, err := parseTrick(*trickFlag)
	if err != nil {
		return err
	}
	req := api.LegalMovesRequest{
		Hand:      hand,
		Trick:     trick,
		LeadSuit:  game.Suit(strings.ToUpper(*lead)),
		TrumpSuit: game.Suit(strings.ToUpper(*trump)),
		Policy:    *policy,
	}

	resp, err := a.rules.LegalMoves(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s %s\n", a.out.Title("policy"), resp.Policy)
	if len(trick) > 0 {
		fmt.Fprintf(a.stdout, "%s %s\n", a.out.Title("trick"), a.out.Trick(trick))
	}
	fmt.Fprintf(a.stdout, "%s %s\n", a.out.Title("hand"), a.out.Highlight(hand, resp.Legal))
	fmt.Fprintf(a.stdout, "%s %s\n", a.out.Title("legal"), formatIndices(resp.Legal))
	return nil
}

func (a *app) winner(args []string) error {
	fs, plain := a.flagSet("winner")
	trickFlag := fs.String("trick", "", "cards played, e.g. 10H@0,QH@1,9S@2,KH@3")
	lead := fs.String("lead", "", "lead suit")
	trump := fs.String("trump", "", "trump suit")
	if err := a.parse(fs, plain, args); err != nil {
		return err
	}

	trick, err := parseTrick(*trickFlag)
	if err != nil {
		return err
	}
	resp, err := a.rules.TrickWinner(api.TrickWinnerRequest{
		Trick:     trick,
		LeadSuit:  game.Suit(strings.ToUpper(*lead)),
		TrumpSuit: game.Suit(strings.ToUpper(*trump)),
	})
	if errors.Is(err, api.ErrNoWinner) {
		fmt.Fprintln(a.stdout, "no winner")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s %s\n", a.out.Title("trick"), a.out.Trick(trick))
	fmt.Fprintf(a.stdout, "%s seat %d with %s (position %d)\n",
		a.out.Title("winner"), resp.Seat, a.out.Card(resp.Winner.Card), resp.Index)
	return nil
}

func (a *app) next(args []string) error {
	fs, plain := a.flagSet("next")
	seat := fs.Int("seat", -1, "seat 0-3")
	if err := a.parse(fs, plain, args); err != nil {
		return err
	}

	resp, err := a.rules.NextSeat(api.NextSeatRequest{Seat: game.Seat(*seat)})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, resp.Next)
	return nil
}

// parseTrick reads comma-separated CARD@SEAT entries.
func parseTrick(s string) ([]game.PlayedCard, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var trick []game.PlayedCard
	for _, part := range strings.Split(s, ",") {
		cardText, seatText, ok := strings.Cut(strings.TrimSpace(part), "@")
		if !ok {
			return nil, fmt.Errorf("%w: -trick entry %q needs CARD@SEAT", errUsage, part)
		}
		c, err := game.ParseCard(cardText)
		if err != nil {
			return nil, fmt.Errorf("%w: -trick: %v", errUsage, err)
		}
		seat, err := strconv.Atoi(seatText)
		if err != nil {
			return nil, fmt.Errorf("%w: -trick seat %q", errUsage, seatText)
		}
		trick = append(trick, game.PlayedCard{Card: c, Seat: game.Seat(seat)})
	}
	return trick, nil
}

func formatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, " ")
}
