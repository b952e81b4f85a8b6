package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"geopick/internal/config"
	"geopick/internal/domain"
	"geopick/internal/eventbus"
	"geopick/internal/hierarchy"
	"geopick/internal/logic"
	"geopick/internal/session"
	"geopick/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		envFile    string
		fieldName  string
		variant    string
		logPath    string
	)
	flag.StringVar(&configPath, "config", "", "Path to the config file (default $GEOPICK_CONFIG or ./"+config.DefaultFileName+")")
	flag.StringVar(&envFile, "env", ".env", "Optional dotenv file with GEOPICK_* settings")
	flag.StringVar(&fieldName, "field", "", "Field to edit (default: first configured field)")
	flag.StringVar(&variant, "variant", "", "Picker variant when the field is new: region or country")
	flag.StringVar(&logPath, "log", "geopick.log", "Log file")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		fmt.Printf("Error loading %s: %v\n", envFile, err)
		os.Exit(1)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	configSvc := config.NewConfigServiceWithBus(config.ResolvePath(configPath), bus)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		fmt.Printf("Error in environment: %v\n", err)
		os.Exit(1)
	}

	field, err := pickField(cfg, fieldName, variant)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	source, closeSource, err := hierarchy.Open(ctx, cfg.Provider.Kind, cfg.Provider.Path, cfg.Provider.DSN)
	if err != nil {
		// The picker still opens; the session reports the provider as unavailable
		log.Printf("Could not open %s provider: %v", cfg.Provider.Kind, err)
		source = nil
	}
	defer func() {
		if err := closeSource(); err != nil {
			log.Printf("Error closing provider: %v", err)
		}
	}()

	// Stored values live in memory and reach the config file on commit
	store := logic.NewMemoryFieldStore()
	for _, name := range cfg.FieldNames() {
		fc := cfg.Fields[name]
		store.SetField(logic.FieldValue{Name: name, Variant: fc.Variant, Values: fc.Values})
	}
	unsubscribe := logic.RecordCommits(bus, store, func(f logic.FieldValue) {
		cfg.SetField(f.Name, f.Variant, f.Values)
		if err := configSvc.Save(cfg); err != nil {
			log.Printf("Failed to save config: %v", err)
			bus.Publish(eventbus.ErrorEvent{Message: "Failed to save config", Err: err})
			return
		}
		log.Printf("Saved %s = %v", f.Name, f.Values)
	})
	defer unsubscribe()

	stored, _ := store.GetField(field.Name)
	sess := session.New(session.Options{
		Field:    field.Name,
		Variant:  field.Variant,
		Seed:     stored.Values,
		Provider: source,
		Bus:      bus,
	})

	// Create UI model
	log.Printf("Opening picker for %s (%s)", field.Name, field.Variant)
	uiModel := ui.NewModel(ctx, cfg, sess)

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward status events to the UI
	for _, t := range []eventbus.EventType{eventbus.EventConfigSaved, eventbus.EventError} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	// Run the UI
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")

	// Let the commit handler finish writing the config
	bus.Close()

	outcome := uiModel.Outcome()
	if !outcome.Committed {
		fmt.Println("No changes saved.")
		return
	}
	fmt.Printf("%s: %s\n", field.Name, strings.Join(outcome.Values, "; "))
}

// pickField resolves which field to edit and with which variant
func pickField(cfg *config.Config, name, variant string) (logic.FieldValue, error) {
	if name == "" {
		names := cfg.FieldNames()
		if len(names) == 0 {
			return logic.FieldValue{}, fmt.Errorf("no fields configured; pass -field")
		}
		name = names[0]
	}

	fallback := domain.VariantRegion
	if variant != "" {
		fallback = domain.Variant(variant)
		if !fallback.Valid() {
			return logic.FieldValue{}, fmt.Errorf("unknown variant %q", variant)
		}
	}

	fc := cfg.Field(name, fallback)
	if variant != "" && fc.Variant != fallback {
		return logic.FieldValue{}, fmt.Errorf("field %q is a %s field", name, fc.Variant)
	}
	return logic.FieldValue{Name: name, Variant: fc.Variant, Values: fc.Values}, nil
}
