package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bohselecta/gummy2/internal/client"
	"github.com/bohselecta/gummy2/internal/config"
	"github.com/bohselecta/gummy2/internal/logging"
	"github.com/bohselecta/gummy2/internal/monitoring"
	"github.com/bohselecta/gummy2/internal/rooms"
	"github.com/bohselecta/gummy2/internal/view"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	serverURL := flag.String("url", "", "Room server base URL")
	room := flag.String("room", "", "Room id to join (a new room is created when empty)")
	nick := flag.String("nick", "", "Requested nickname")
	metricsAddr := flag.String("metrics", "", "Prometheus listener address")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *room != "" {
		cfg.Session.Room = *room
	}
	if *nick != "" {
		cfg.Session.Nickname = *nick
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Provision a room when none was given.
	if cfg.Session.Room == "" {
		roomID, err := rooms.NewClient(cfg.Server.URL, log).Create(ctx)
		if err != nil {
			log.Fatal("failed to create room", zap.Error(err))
		}
		cfg.Session.Room = roomID
		fmt.Printf("Created room %s\n", roomID)
	}

	metrics := monitoring.New()
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, metrics, log)
	}

	session, err := client.New(client.Config{
		ServerURL:      cfg.Server.URL,
		Room:           cfg.Session.Room,
		Nickname:       cfg.Session.Nickname,
		ReconnectDelay: cfg.Session.ReconnectDelay,
		TypingDebounce: cfg.Session.TypingDebounce,
		TypingTTL:      cfg.Session.TypingTTL,
		SendRate:       cfg.Session.SendRate,
		SendBurst:      cfg.Session.SendBurst,
	}, log, metrics)
	if err != nil {
		log.Fatal("failed to create session", zap.Error(err))
	}

	go session.Run(ctx)
	go render(ctx, session)

	fmt.Printf("Joining room %s at %s\n", cfg.Session.Room, cfg.Server.URL)
	fmt.Println("Commands: /mode conversation|coder, /view own|others, /quit")

	readInput(ctx, stop, session)
	fmt.Println("Bye.")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.LoadOrDefault()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg *config.Config) *logging.Logger {
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logging.NewDefault()
	}
	return log
}

func serveMetrics(addr string, metrics *monitoring.Metrics, log *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	log.Info("metrics listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("metrics listener stopped", zap.Error(err))
	}
}

// readInput drives the session from stdin, one line per user action.
func readInput(ctx context.Context, stop func(), session *client.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				stop()
				return
			}
			switch {
			case line == "/quit":
				stop()
				return
			case strings.HasPrefix(line, "/mode "):
				session.SetMode(strings.TrimSpace(strings.TrimPrefix(line, "/mode ")))
			case line == "/view others":
				session.SetDisplayMode(view.DisplayObserved)
			case line == "/view own":
				session.SetDisplayMode(view.DisplayOwn)
			default:
				session.InputActivity()
				session.Submit(line)
			}
		}
	}
}

// render polls the session and prints whatever changed since the last
// tick: new own-thread messages, streamed text and status transitions.
func render(ctx context.Context, session *client.Session) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var last view.View
	printed := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v := session.Snapshot()

		if v.Connection != last.Connection {
			fmt.Printf("[%s]\n", v.Connection)
		}
		if v.Queue != last.Queue && v.Queue != "" {
			fmt.Println(v.Queue)
		}
		if v.Banner != last.Banner && v.Banner != "" {
			fmt.Println(v.Banner)
		}
		if v.TypingNotice != last.TypingNotice && v.TypingNotice != "" {
			fmt.Println(v.TypingNotice)
		}

		switch v.Display {
		case view.DisplayOwn:
			if last.Display != view.DisplayOwn {
				printed = 0
			}
			if printed > len(v.Messages) {
				// Rejoin rewrote the thread; start over.
				printed = 0
			}
			for ; printed < len(v.Messages); printed++ {
				m := v.Messages[printed]
				if m.Streaming {
					break
				}
				fmt.Printf("%s: %s\n", m.Role, m.Content)
			}
		case view.DisplayObserved:
			if last.Display != view.DisplayObserved {
				for _, o := range v.Observed {
					fmt.Printf("%s [%s] %s\n", o.OwnerName, o.Status, o.Preview)
				}
			}
		}

		last = v
	}
}
