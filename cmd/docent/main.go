// docent is an interactive AI tour guide for Seoul landmarks: chat with
// the docent, hear replies through a local audio player, browse quests
// and rewards, and fetch walking routes.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/quest-of-seoul/go-docent/internal/config"
	ilog "github.com/quest-of-seoul/go-docent/internal/log"
	"github.com/quest-of-seoul/go-docent/pkg/docent"
	"github.com/quest-of-seoul/go-docent/pkg/geo"
	"github.com/quest-of-seoul/go-docent/pkg/player"
	"github.com/quest-of-seoul/go-docent/pkg/route"
	"github.com/quest-of-seoul/go-docent/pkg/session"
)

const nearbyRadiusKm = 2.0

func main() {
	cfg, err := parseFlags()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	ilog.Init(cfg.LogLevel)

	p, err := newPlayer(cfg)
	if err != nil {
		log.Fatalf("❌ Audio player setup failed: %v", err)
	}
	defer p.Close()

	client := docent.NewClient(cfg.APIBaseURL, docent.WithLogger(ilog.L()))

	opts := []session.Option{session.WithLanguage(cfg.Language)}
	if cfg.UserID != "" {
		opts = append(opts, session.WithUserID(cfg.UserID))
	}
	s := session.New(client, p, opts...)
	defer s.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{cfg: cfg, client: client, session: s}
	if cfg.KakaoAPIKey != "" {
		a.router, err = route.NewClient(cfg.KakaoAPIKey, route.WithLogger(ilog.L()))
		if err != nil {
			log.Fatalf("❌ Route client setup failed: %v", err)
		}
	}

	if err := a.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags layers command line flags over the environment config.
func parseFlags() (*config.Config, error) {
	apiURL := flag.String("api", "", "Backend base URL (overrides DOCENT_API_URL)")
	user := flag.String("user", "", "User id (overrides DOCENT_USER_ID)")
	lang := flag.String("lang", "", "Reply language code (overrides DOCENT_LANGUAGE)")
	backend := flag.String("audio", "", "Audio backend: auto, file, pipe, mock (overrides AUDIO_BACKEND)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *user != "" {
		cfg.UserID = *user
	}
	if *lang != "" {
		cfg.Language = *lang
	}
	if *backend != "" {
		cfg.PlayerBackend = *backend
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newPlayer(cfg *config.Config) (player.Player, error) {
	pc := player.DefaultConfig()
	pc.Backend = player.Backend(cfg.PlayerBackend)
	if cfg.PlayerCommand != "" {
		fields := strings.Fields(cfg.PlayerCommand)
		pc.Command = fields[0]
		pc.Args = fields[1:]
	}
	return player.New(pc, ilog.L())
}

type app struct {
	cfg      *config.Config
	client   *docent.Client
	session  *session.Session
	router   *route.Client
	lines    chan string // sole reader of stdin feeds this
	landmark string
	lat, lon float64
	hasPos   bool
}

func (a *app) run(ctx context.Context) error {
	fmt.Println("Quest of Seoul docent. Type a question, or /help for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	a.lines = make(chan string)
	go func() {
		defer close(a.lines)
		for scanner.Scan() {
			select {
			case a.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return ctx.Err()
		case line, ok := <-a.lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				return nil
			}
			if err := a.handle(ctx, line); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		}
	}
}

func (a *app) handle(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, "/") {
		return a.ask(ctx, line)
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/help":
		a.printHelp()
		return nil
	case "/landmark":
		if len(fields) < 2 {
			return errors.New("usage: /landmark <name>")
		}
		a.landmark = strings.Join(fields[1:], " ")
		fmt.Printf("landmark set to %s\n", a.landmark)
		return nil
	case "/here":
		if len(fields) != 3 {
			return errors.New("usage: /here <lat> <lon>")
		}
		return a.setPosition(fields[1], fields[2])
	case "/quests":
		return a.quests(ctx)
	case "/quiz":
		if len(fields) != 2 {
			return errors.New("usage: /quiz <quest-id>")
		}
		return a.quiz(ctx, fields[1])
	case "/route":
		if len(fields) != 3 {
			return errors.New("usage: /route <dest-lat> <dest-lon>")
		}
		return a.route(ctx, fields[1], fields[2])
	case "/points":
		return a.points(ctx)
	case "/history":
		return a.history()
	case "/stop":
		a.session.Interrupt()
		return nil
	default:
		return fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}

func (a *app) printHelp() {
	fmt.Println(`commands:
  /landmark <name>        set the landmark context for questions
  /here <lat> <lon>       set your position
  /quests                 list quests near your position
  /quiz <quest-id>        take a quest's quiz
  /route <lat> <lon>      walking route from your position
  /points                 show your reward point balance
  /history                show this session's exchanges
  /stop                   stop queued audio playback
  /quit                   exit`)
}

func (a *app) ask(ctx context.Context, text string) error {
	reply, err := a.session.Ask(ctx, a.landmark, text)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func (a *app) setPosition(latStr, lonStr string) error {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return fmt.Errorf("bad latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return fmt.Errorf("bad longitude %q", lonStr)
	}
	a.lat, a.lon, a.hasPos = lat, lon, true
	fmt.Printf("position set to %.5f, %.5f\n", lat, lon)
	return nil
}

func (a *app) quests(ctx context.Context) error {
	var (
		quests []docent.Quest
		err    error
	)
	if a.hasPos {
		quests, err = a.client.NearbyQuests(ctx, a.lat, a.lon, nearbyRadiusKm)
		if errors.Is(err, docent.ErrNoQuests) {
			fmt.Printf("no quests within %.1f km\n", nearbyRadiusKm)
			return nil
		}
	} else {
		quests, err = a.client.Quests(ctx)
	}
	if err != nil {
		return err
	}

	for _, q := range quests {
		line := fmt.Sprintf("%s  %s (%d pts)", q.ID, q.Title, q.Points)
		if a.hasPos {
			d := q.DistanceKm
			if d == 0 {
				d = geo.Distance(a.lat, a.lon, q.Lat, q.Lon)
			}
			line += fmt.Sprintf("  %.2f km away", d)
		}
		fmt.Println(line)
	}
	return nil
}

func (a *app) quiz(ctx context.Context, questID string) error {
	result, err := a.session.RunQuiz(ctx, questID, func(q docent.Quiz) int {
		fmt.Println(q.Question)
		for i, opt := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
		fmt.Print("answer: ")

		select {
		case <-ctx.Done():
			return -1
		case line, ok := <-a.lines:
			if !ok {
				return -1
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || n < 1 || n > len(q.Options) {
				return -1
			}
			return n - 1
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d/%d correct, %d points earned\n", result.Correct, result.Total, result.PointsEarned)
	return nil
}

func (a *app) route(ctx context.Context, latStr, lonStr string) error {
	if a.router == nil {
		return errors.New("set KAKAO_REST_API_KEY to use routing")
	}
	if !a.hasPos {
		return errors.New("set your position first with /here")
	}

	destLat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return fmt.Errorf("bad latitude %q", latStr)
	}
	destLon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return fmt.Errorf("bad longitude %q", lonStr)
	}

	r, err := a.router.WalkingRoute(ctx, a.lat, a.lon, destLat, destLon)
	if errors.Is(err, route.ErrRouteNotFound) {
		fmt.Println("no route found")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%.1f km, about %s, %d path points\n",
		float64(r.Distance)/1000, (time.Duration(r.Duration) * time.Second).Round(time.Minute), len(r.Coordinates))
	return nil
}

func (a *app) points(ctx context.Context) error {
	if a.cfg.UserID == "" {
		return errors.New("set DOCENT_USER_ID (or -user) to track points")
	}
	p, err := a.client.Points(ctx, a.cfg.UserID)
	if err != nil {
		return err
	}
	fmt.Printf("%d points\n", p.Points)
	return nil
}

func (a *app) history() error {
	hist := a.session.History()
	if len(hist) == 0 {
		fmt.Println("no exchanges yet")
		return nil
	}
	for _, e := range hist {
		fmt.Printf("[%s] you: %s\n", e.At.Format("15:04"), e.Prompt)
		fmt.Printf("[%s] docent: %s\n", e.At.Format("15:04"), e.Reply)
	}
	return nil
}
