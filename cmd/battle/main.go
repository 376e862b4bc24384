package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/battle-engine/internal/config"
	"github.com/KirkDiggler/battle-engine/internal/data"
	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/events"
	"github.com/KirkDiggler/battle-engine/internal/locale"
	"github.com/KirkDiggler/battle-engine/internal/repositories/battles"
	"github.com/KirkDiggler/battle-engine/internal/rng"
	"github.com/KirkDiggler/battle-engine/internal/sequence"
	"github.com/KirkDiggler/battle-engine/internal/services/action"
	"github.com/KirkDiggler/battle-engine/internal/services/battle"
	"github.com/KirkDiggler/battle-engine/internal/telemetry"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Printf("Failed to set up tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("Failed to flush traces: %v", err)
		}
	}()

	lib, err := loadLibrary(ctx, cfg.Battle.DataDir)
	if err != nil {
		log.Fatalf("Failed to load design data: %v", err)
	}

	repo, closeRepo := openRepository(cfg.Redis)
	defer closeRepo()

	bus := events.NewBus()
	roller := rng.NewRandomRoller(cfg.Battle.Seed)
	printer := locale.NewPrinter(cfg.Battle.Locale)
	player := sequence.NewPlayer(bus)
	director := sequence.NewDirector(lib, player, sequence.DefaultActions(bus))
	narrator := battle.NewNarrator(bus, printer)

	engine := effects.NewEngine(&effects.EngineConfig{
		Roller:    roller,
		Narrator:  narrator,
		Sequencer: director,
		Library:   lib,
	})

	svc := battle.NewService(&battle.ServiceConfig{
		Bus:     bus,
		Player:  player,
		Engine:  engine,
		Roller:  roller,
		Printer: printer,
		Actions: action.NewService(&action.ServiceConfig{
			Engine:  engine,
			Roller:  roller,
			Printer: printer,
			Level:   cfg.Battle.Level,
		}),
		Sequencer:   director,
		Narrator:    narrator,
		Repository:  repo,
		IntroScript: cfg.Battle.IntroScript,
	})
	log.Printf("Battle %s (seed %d, locale %s)", svc.ID(), cfg.Battle.Seed, printer.Tag())

	h := &host{cfg: cfg.Battle, lib: lib, svc: svc, roller: roller}
	if err := h.joinParty(); err != nil {
		log.Fatalf("Failed to create party: %v", err)
	}
	if err := h.spawnEncounter(); err != nil {
		log.Fatalf("Failed to create encounter: %v", err)
	}

	done := make(chan string, 1)
	events.Subscribe(bus, events.Narration, func(line string) error {
		fmt.Println(line)
		return nil
	})
	events.Subscribe(bus, battle.TurnStarted, func(turn int) error {
		h.printStatus(turn)
		return nil
	})
	events.Subscribe(bus, battle.PhaseChanged, func(phase string) error {
		if battle.Phase(phase) == battle.PhaseAwaitActions && !cfg.Battle.AutoPlay {
			h.printPrompt()
		}
		return nil
	})
	events.Subscribe(bus, battle.Lost, func(events.Void) error {
		finish(done, "defeat")
		return nil
	})
	events.Subscribe(bus, battle.EncounterRequested, func(events.Void) error {
		h.cleared++
		if cfg.Battle.MaxEncounters > 0 && h.cleared >= cfg.Battle.MaxEncounters {
			finish(done, fmt.Sprintf("victory after %d encounters", h.cleared))
			return nil
		}
		return h.spawnEncounter()
	})

	var input <-chan string
	if !cfg.Battle.AutoPlay {
		input = readLines()
	}

	svc.Start(ctx)
	ticker := time.NewTicker(cfg.Battle.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down")
			return
		case result := <-done:
			log.Printf("Battle over: %s on turn %d", result, svc.Turn())
			return
		case line, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if err := h.choose(bus, line); err != nil {
				fmt.Printf("  %v\n", err)
			}
		case <-ticker.C:
			if err := svc.Tick(ctx); err != nil {
				log.Printf("Tick failed: %v", err)
			}
		}
	}
}

// finish records the first result; handlers run inside Tick and must not block
func finish(done chan<- string, result string) {
	select {
	case done <- result:
	default:
	}
}

func loadLibrary(ctx context.Context, dir string) (*data.Library, error) {
	if dir == "" {
		return data.Default()
	}
	log.Printf("Loading design data from %s", dir)
	return data.Load(ctx, dir)
}

// openRepository connects to Redis when configured and falls back to memory
func openRepository(cfg config.RedisConfig) (battles.Repository, func()) {
	noop := func() {}
	if cfg.URL == "" {
		log.Println("No REDIS_URL found, keeping snapshots in memory")
		return battles.NewInMemoryRepository(), noop
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		log.Println("Falling back to in-memory snapshots")
		return battles.NewInMemoryRepository(), noop
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory snapshots")
		return battles.NewInMemoryRepository(), noop
	}

	log.Println("Using Redis for battle snapshots")
	return battles.NewRedis(client, battles.SystemTimeProvider()), func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
}

// host owns the roster around one battle
type host struct {
	cfg     config.BattleConfig
	lib     *data.Library
	svc     battle.Service
	roller  rng.Roller
	spawned int
	cleared int
}

func (h *host) joinParty() error {
	control := combatant.Human
	if h.cfg.AutoPlay {
		control = combatant.AI
	}
	for i, name := range h.cfg.Party {
		e, err := h.lib.NewEntity(name, data.EntityOptions{
			ID:      fmt.Sprintf("%s-%d", strings.ToLower(name), i+1),
			Side:    combatant.Player,
			Control: control,
			Level:   h.cfg.Level,
		})
		if err != nil {
			return err
		}
		if err := h.svc.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}

// spawnEncounter adds one or two random opponents
func (h *host) spawnEncounter() error {
	count := 1 + h.roller.Intn(2)
	for i := 0; i < count; i++ {
		name := h.cfg.Encounters[h.roller.Intn(len(h.cfg.Encounters))]
		h.spawned++
		e, err := h.lib.NewEntity(name, data.EntityOptions{
			ID:    fmt.Sprintf("%s-%d", strings.ToLower(name), h.spawned),
			Side:  combatant.Opponent,
			Level: h.cfg.Level,
		})
		if err != nil {
			return err
		}
		if err := h.svc.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}

func (h *host) printStatus(turn int) {
	fmt.Printf("\n== Turn %d ==\n", turn)
	for _, e := range h.svc.Entities() {
		if !e.Alive() {
			continue
		}
		fmt.Printf("  [%s] %-10s HP %3d/%-3d MP %3d/%-3d %s\n",
			e.Side(), e.ID(), e.HP(), e.MaxHP(), e.MP(), e.MaxMP(), strings.Join(e.Effects().Names(), ","))
	}
}

func (h *host) printPrompt() {
	for _, e := range h.svc.Entities() {
		if !e.Alive() || e.IsAI() {
			continue
		}
		names := make([]string, 0, len(e.Spells()))
		for _, s := range e.Affordable() {
			names = append(names, s.Name)
		}
		fmt.Printf("  %s: %s\n", e.ID(), strings.Join(names, ", "))
	}
	fmt.Println("  enter entity|spell|target (empty spell passes)")
}

// choose publishes a typed line as a player choice
func (h *host) choose(bus *events.Bus, line string) error {
	parts := strings.Split(line, "|")
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return events.Publish(bus, battle.ActionChosen, battle.ActionChoice{
		EntityID: strings.TrimSpace(parts[0]),
		Spell:    strings.TrimSpace(parts[1]),
		TargetID: strings.TrimSpace(parts[2]),
	})
}

func readLines() <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if text := strings.TrimSpace(scanner.Text()); text != "" {
				lines <- text
			}
		}
	}()
	return lines
}
