package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/al-yap/shiny/pkg/config"
	"github.com/al-yap/shiny/pkg/observability"
	"github.com/al-yap/shiny/pkg/protocol"
	"github.com/al-yap/shiny/pkg/protocol/codec"
	"github.com/al-yap/shiny/pkg/ratelimit"
	"github.com/al-yap/shiny/pkg/session"
	"github.com/al-yap/shiny/pkg/transport/ws"
)

// stdout binding printing value/error/progress notifications for one output.
type printBinding struct {
	name string
}

func (p *printBinding) OnValueChange(v any) { fmt.Printf("%s = %v\n", p.name, v) }
func (p *printBinding) OnValueError(e protocol.ErrorInfo) {
	fmt.Printf("%s ! %s\n", p.name, e.Message)
}
func (p *printBinding) ShowProgress(active bool) {
	if active {
		fmt.Printf("%s ...\n", p.name)
	}
}

func main() {
	cfgPath := flag.String("config", "", "path to config file (yaml)")
	url := flag.String("url", "", "server url override")
	outputs := flag.String("outputs", "", "comma-separated output names to bind")
	timeout := flag.Duration("timeout", 5*time.Second, "dial timeout")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	if *url != "" {
		cfg.ServerURL = *url
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		fatalf("setup logger: %v", err)
	}
	defer logger.Sync()

	sess := session.New(session.Options{
		URL:    cfg.ServerURL,
		Dialer: ws.New(cfg.Subprotocol),
		Codec:  codec.ForSubprotocol(cfg.Subprotocol),
		Logger: logger,
		OnDisconnect: func() {
			fmt.Println("disconnected")
			os.Exit(0)
		},
	})

	for _, name := range strings.Split(*outputs, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := sess.Bind(name, &printBinding{name: name}); err != nil {
			fatalf("bind %s: %v", name, err)
		}
	}

	// Initial input snapshot from positional name=value args.
	initial := map[string]any{}
	for _, arg := range flag.Args() {
		if name, val, ok := strings.Cut(arg, "="); ok {
			initial[name] = val
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := sess.Connect(ctx, initial); err != nil {
		fatalf("connect: %v", err)
	}
	logger.Info("connected", zap.String("url", cfg.ServerURL), zap.String("subprotocol", cfg.Subprotocol))

	// Batch stdin edits and pace them with the configured policy.
	var mu sync.Mutex
	batch := map[string]any{}
	flush := func() {
		mu.Lock()
		if len(batch) == 0 {
			mu.Unlock()
			return
		}
		out := batch
		batch = map[string]any{}
		mu.Unlock()
		if err := sess.SendInput(out); err != nil {
			zap.L().Warn("send input", zap.Error(err))
		}
	}
	threshold := time.Duration(cfg.Input.ThresholdMS) * time.Millisecond
	var paced func()
	if cfg.Input.Policy == config.PolicyThrottle {
		paced = ratelimit.Throttle(threshold, flush)
	} else {
		paced = ratelimit.Debounce(threshold, flush)
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		name, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || name == "" {
			continue
		}
		mu.Lock()
		batch[name] = val
		mu.Unlock()
		paced()
	}
	flush()
	sess.Close()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
