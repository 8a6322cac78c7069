package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/kayleyai/kayley/pkg/ai"
	"github.com/kayleyai/kayley/pkg/bootstrap"
	"github.com/kayleyai/kayley/pkg/config"
	"github.com/kayleyai/kayley/pkg/db"
	"github.com/kayleyai/kayley/pkg/events"
	"github.com/kayleyai/kayley/pkg/idle"
	"github.com/kayleyai/kayley/pkg/logging"
	"github.com/kayleyai/kayley/pkg/rounds"
	"github.com/kayleyai/kayley/pkg/scheduler"
	"github.com/kayleyai/kayley/pkg/surfacing"
)

const questionCategory = "question"

func main() {
	logger := log.NewWithOptions(os.Stdout, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Level:           log.DebugLevel,
		TimeFormat:      time.Kitchen,
	})

	envs, _ := config.LoadConfig(true)
	logger.Info("Using database path", "path", envs.DBPath)

	factory := logging.NewFactory(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if envs.DBDriver == db.DriverSQLite && envs.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(envs.DBPath), 0o755); err != nil {
			panic(errors.Wrap(err, "Unable to create database directory"))
		}
	}

	store, err := db.Open(ctx, envs.DBDriver, envs.DBPath, factory.ForDatabase("store"))
	if err != nil {
		panic(errors.Wrap(err, "Unable to create or initialize database"))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Error closing store", "error", err)
		}
	}()

	if envs.NatsURL == "" {
		natsServer, err := bootstrap.StartEmbeddedNATSServer(factory.ForNATS("embedded-server"))
		if err != nil {
			panic(errors.Wrap(err, "Unable to start nats server"))
		}
		defer natsServer.Shutdown()
	}

	nc, err := bootstrap.NewNatsClient(envs.NatsURL)
	if err != nil {
		panic(errors.Wrap(err, "Unable to create nats client"))
	}
	defer nc.Close()
	logger.Info("NATS client connected")

	publisher := events.NewPublisher(nc, factory.ForNATS("publisher"))

	categories := buildCategories(envs)
	tracker := surfacing.NewTracker(store, factory.ForService("tracker"), categories)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	generators := buildGenerators(envs, factory, rng)

	var daySummary *idle.DaySummarySource
	if envs.CompletionsAPIKey != "" {
		aiService := ai.NewOpenAIService(factory.ForAI("completions"), envs.CompletionsAPIKey, envs.CompletionsAPIURL)
		daySummary = idle.NewDaySummarySource(store, aiService, envs.CompletionsModel, envs.Persona, factory.ForAI("day-summary"))
	}

	idleService := idle.NewService(idle.ServiceConfig{
		Tracker:    tracker,
		Generators: generators,
		Publisher:  publisher,
		Logger:     factory.ForService("idle"),
		DaySummary: daySummary,
		GenTimeout: time.Duration(envs.GenTimeoutSeconds) * time.Second,
	})

	selector := surfacing.NewSelector(store, factory.ForService("selector"), envs.SelectCeiling)
	detector := surfacing.NewDetector(tracker, buildMatcher(envs), publisher, factory.ForService("detector"))

	roundBridge := rounds.NewService(selector, detector, publisher, factory.ForNATS("rounds"))
	if err := roundBridge.Start(ctx, nc); err != nil {
		panic(errors.Wrap(err, "Unable to start round bridge"))
	}
	defer roundBridge.Stop()

	housekeeper := scheduler.NewHousekeeper(store, publisher, factory.ForWorker("housekeeper"), categories)

	sched := scheduler.New(
		factory.ForWorker("scheduler"),
		time.Duration(envs.TickMinSeconds)*time.Second,
		time.Duration(envs.TickMaxSeconds)*time.Second,
		5*time.Minute,
		rng,
	)
	sched.Register(idleService)
	sched.Register(housekeeper)

	logger.Info("Surfacing daemon started",
		"categories", envs.Categories,
		"tick_min_s", envs.TickMinSeconds,
		"tick_max_s", envs.TickMaxSeconds)

	sched.Run(ctx)
	logger.Info("Shutdown complete")
}

func buildCategories(envs *config.Config) []surfacing.CategoryConfig {
	names := lo.Filter(strings.Split(envs.Categories, ","), func(name string, _ int) bool {
		return strings.TrimSpace(name) != ""
	})
	configs := lo.Map(names, func(name string, _ int) surfacing.CategoryConfig {
		return surfacing.CategoryConfig{
			Name:          strings.TrimSpace(name),
			MaxUnsurfaced: envs.CategoryCap,
			DefaultTTL:    time.Duration(envs.DefaultTTLHours) * time.Hour,
		}
	})

	// The offline question generator always has a home.
	if !lo.ContainsBy(configs, func(c surfacing.CategoryConfig) bool { return c.Name == questionCategory }) {
		configs = append(configs, surfacing.CategoryConfig{
			Name:          questionCategory,
			MaxUnsurfaced: envs.CategoryCap,
			DefaultTTL:    time.Duration(envs.DefaultTTLHours) * time.Hour,
		})
	}
	return configs
}

func buildMatcher(envs *config.Config) surfacing.Matcher {
	if envs.MatcherKind == "overlap" {
		return surfacing.NewWordOverlapMatcher(envs.OverlapMinScore)
	}
	return surfacing.NewFragmentMatcher(envs.FragmentLength)
}

func buildGenerators(envs *config.Config, factory *logging.Factory, rng *rand.Rand) []surfacing.Generator {
	var generators []surfacing.Generator

	if envs.CompletionsAPIKey != "" {
		aiService := ai.NewOpenAIService(factory.ForAI("completions"), envs.CompletionsAPIKey, envs.CompletionsAPIURL)
		for _, name := range strings.Split(envs.Categories, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			thought := idle.NewThoughtGenerator(factory.ForAI("thought-"+name), aiService, envs.CompletionsModel, envs.Persona, name)
			generators = append(generators, surfacing.WithProbability(thought, envs.GenerateChance, rng))
		}
	}

	questions := idle.NewQuestionGenerator(questionCategory, rng)
	generators = append(generators, surfacing.WithProbability(questions, envs.GenerateChance, rng))

	return generators
}
