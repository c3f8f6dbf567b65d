package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/normanking/srishti/internal/config"
	"github.com/normanking/srishti/internal/genai"
	"github.com/normanking/srishti/internal/logging"
	"github.com/normanking/srishti/internal/relay"
	"github.com/normanking/srishti/internal/session"
	"github.com/normanking/srishti/internal/store"
	"github.com/normanking/srishti/internal/voice"
)

func main() {
	listen := flag.Bool("listen", false, "enable the background speech-recognition stream")
	noTTS := flag.Bool("no-tts", false, "disable speech playback")
	mode := flag.String("mode", "", "starting intelligence mode (AGI or ASI)")
	showRelay := flag.Bool("relay", false, "print neural relay entries as they arrive")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *noTTS {
		cfg.TTS.Enabled = false
	}
	if *mode != "" {
		cfg.Session.DefaultMode = strings.ToUpper(*mode)
	}
	if *listen {
		cfg.Listener.Enabled = true
	}

	logger, err := logging.New(&logging.Config{
		LogDir:  cfg.Logging.Dir,
		Level:   cfg.Logging.Level,
		Console: false,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	zlog := logger.Zerolog()
	zlog.Info().Str("log", logger.LogPath()).Msg("Srishti starting")

	st, err := store.NewSQLiteStore(cfg.Store.Path, logger.Component("store"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	client := genai.NewClient(&genai.ClientConfig{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		ChatModel:   cfg.GenAI.ChatModel,
		RecallModel: cfg.GenAI.RecallModel,
		TTSModel:    cfg.GenAI.TTSModel,
		Voice:       cfg.TTS.Voice,
		Timeout:     cfg.GenAI.Timeout,
	}, zlog)

	engine := session.NewEngine(session.Config{
		BotName:           cfg.Session.BotName,
		WakeAliases:       cfg.Session.WakeAliases,
		DefaultMode:       session.IntelligenceMode(cfg.Session.DefaultMode),
		HistoryWindow:     cfg.Session.HistoryWindow,
		ThinkingBudgetASI: cfg.GenAI.ThinkingBudget.ASI,
		ThinkingBudgetAGI: cfg.GenAI.ThinkingBudget.AGI,
		RelayCapacity:     cfg.Session.RelayCapacity,
	}, client, st, zlog)
	engine.SetTTSEnabled(cfg.TTS.Enabled)
	engine.SetFeedback(func(text string) {
		fmt.Printf("[%s]\n", text)
	})

	// Playback has no local sink in CLI mode; synthesis still runs so the
	// voice path is exercised end to end.
	engine.SetSpeaker(session.NewSpeaker(client, nil, engine.Relay(), zlog))

	if *showRelay {
		engine.Relay().SetOnPush(func(e relay.Entry) {
			fmt.Printf("  ~ [%s] %s\n", e.Category, e.Content)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down.")
		cancel()
	}()

	var listener *voice.Listener
	if cfg.Listener.Enabled {
		listener = voice.NewListener(&voice.ListenerConfig{
			ServerURL:      cfg.Listener.ServerURL,
			SampleRate:     cfg.Listener.SampleRate,
			ReconnectDelay: cfg.Listener.ReconnectDelay,
		}, zlog, func(transcript string) {
			engine.HandleTranscript(ctx, transcript)
		})
		listener.Start(ctx)
		engine.SetListening(true)
		defer listener.Stop()
	}

	watcher, err := config.NewWatcher(zlog, func(next *config.Config) {
		engine.SetTTSEnabled(next.TTS.Enabled && !*noTTS)
		engine.Relay().Push("Configuration hot-reloaded.", relay.CategoryNotif)
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("Config watcher unavailable")
	} else {
		defer watcher.Close()
	}

	fmt.Printf("%s online. Type a message, or /help for commands.\n", cfg.Session.BotName)
	repl(ctx, engine)
}

// repl reads lines from stdin until EOF or cancellation.
func repl(ctx context.Context, engine *session.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if handleLine(ctx, engine, line) {
				return
			}
		}
	}
}

// handleLine processes one input line. Returns true to exit the loop.
func handleLine(ctx context.Context, engine *session.Engine, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, "/") {
		parts := strings.Fields(line)
		switch parts[0] {
		case "/quit", "/exit":
			return true

		case "/help":
			fmt.Println("Commands: /kill /reset /mode <AGI|ASI> /voice <MALE|FEMALE> /mem /tasks <text> /relay /clear /quit")

		case "/kill":
			engine.KillSwitch()

		case "/reset":
			engine.Reset()

		case "/mode":
			if len(parts) < 2 {
				fmt.Println("usage: /mode <AGI|ASI>")
				break
			}
			if err := engine.SetMode(session.IntelligenceMode(strings.ToUpper(parts[1]))); err != nil {
				fmt.Printf("mode switch rejected: %v\n", err)
			}

		case "/voice":
			if len(parts) < 2 {
				fmt.Println("usage: /voice <MALE|FEMALE>")
				break
			}
			engine.SetVocalMatrix(session.VocalMatrix(strings.ToUpper(parts[1])))

		case "/mem":
			for _, m := range engine.Memories() {
				fmt.Printf("  [%s/%d] %s\n", m.Category, m.Importance, m.Fact)
			}

		case "/tasks":
			if len(parts) < 2 {
				fmt.Println("usage: /tasks <text>")
				break
			}
			task := engine.AddTask(strings.Join(parts[1:], " "))
			fmt.Printf("task recorded: %s\n", task.Text)

		case "/relay":
			for _, e := range engine.Relay().Entries() {
				fmt.Printf("  [%s] %s\n", e.Category, e.Content)
			}

		case "/clear":
			if err := engine.ClearHistory(); err != nil {
				fmt.Printf("clear rejected: %v\n", err)
			}

		default:
			fmt.Printf("unknown command %s\n", parts[0])
		}
		return false
	}

	// Any dictated text waiting in the pending buffer joins this submission.
	if pending := engine.TakePending(); pending != "" {
		line = pending + " " + line
	}

	if err := engine.Submit(ctx, line, ""); err != nil {
		fmt.Printf("submission rejected: %v\n", err)
		return false
	}

	history := engine.History()
	if len(history) > 0 {
		last := history[len(history)-1]
		if last.Role == session.RoleAssistant {
			st := engine.State()
			fmt.Printf("\n%s [%s/%s]\n\n", last.Text, st.IntelligenceMode, st.PersonalityMode)
		}
	}
	return false
}
