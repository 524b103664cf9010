package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	debugui_ebiten "github.com/plus3/skirmish/ecs/debugui/ebiten"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/assets"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/config"
	"github.com/plus3/skirmish/internal/gui"
	"github.com/plus3/skirmish/internal/logging"
	"github.com/plus3/skirmish/internal/render"
	"github.com/plus3/skirmish/internal/scripting"
	"github.com/plus3/skirmish/internal/systems"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "skirmish: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the TOML config (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	level := flag.Int("level", 0, "level number to load, overriding the config")
	debug := flag.Bool("debug", false, "start with the debug overlay visible")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		return err
	}
	if *level > 0 {
		cfg.Game.Level = *level
	}
	if *debug {
		cfg.Game.Debug = true
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	defer log.Sync()

	componentTypes := ecs.NewComponentRegistry()
	components.Register(componentTypes)
	debugui.RegisterDebugUIComponents(componentTypes)

	registry := ecs.NewRegistry(componentTypes, ecs.WithLogger(log.Named("ecs")))
	scheduler := ecs.NewScheduler(registry, eventbus.New())

	store := assets.NewStore(log)
	defer store.ClearAssets()

	manifest, err := assets.LoadManifest(cfg.Assets.Manifest)
	if err != nil {
		return err
	}
	if err := store.Load(manifest); err != nil {
		return err
	}

	engine := scripting.NewEngine(registry, log)
	defer engine.Close()

	loader := scripting.NewLevelLoader(engine, store)
	loader.Root = filepath.Dir(cfg.Assets.Manifest)
	summary, err := loader.Load(scripting.LevelPath(cfg.Game.ScriptsDir, cfg.Game.Level))
	if err != nil {
		return err
	}
	log.Debug("map bounds",
		zap.Int("level", cfg.Game.Level),
		zap.Float64("width", summary.Bounds.Width),
		zap.Float64("height", summary.Bounds.Height))

	ecs.AddSingleton(registry, components.Camera{Width: cfg.Window.Width, Height: cfg.Window.Height})
	ecs.AddSingleton(registry, render.Screen{})
	ecs.AddSingleton(registry, debugui.ImguiInputState{})
	ecs.AddSingleton(registry, debugui.Overlay{Visible: cfg.Game.Debug})

	scheduler.Register(ecs.PhaseInput, systems.NewInputSystem(nil))
	scheduler.Register(ecs.PhaseInput, systems.NewKeyboardControlSystem(registry))
	scheduler.Register(ecs.PhaseInput, debugui.NewImguiSystem())

	scheduler.Register(ecs.PhaseUpdate, systems.NewMovementSystem(registry))
	scheduler.Register(ecs.PhaseUpdate, systems.NewCameraMovementSystem())
	scheduler.Register(ecs.PhaseUpdate, systems.NewAnimationSystem())
	scheduler.Register(ecs.PhaseUpdate, systems.NewCollisionSystem())
	scheduler.Register(ecs.PhaseUpdate, systems.NewDamageSystem(registry))
	scheduler.Register(ecs.PhaseUpdate, systems.NewProjectileEmitSystem())
	scheduler.Register(ecs.PhaseUpdate, systems.NewProjectileLifecycleSystem())
	scheduler.Register(ecs.PhaseUpdate, scripting.NewScriptSystem(engine))

	scheduler.Register(ecs.PhaseRender, render.NewSpriteSystem(store))
	scheduler.Register(ecs.PhaseRender, render.NewColliderSystem())
	scheduler.Register(ecs.PhaseRender, render.NewTextSystem(store))
	scheduler.Register(ecs.PhaseRender, render.NewHealthBarSystem(store))

	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	imgui.CurrentIO().SetIniFilename("")
	ecs.AddSingleton(registry, debugui_ebiten.ImguiBackend{EbitenBackend: backend})

	gui.Spawn(registry, store.TextureIds, ebiten.CursorPosition)
	debugui.SpawnDebugUI(registry, scheduler)

	ebiten.SetTPS(cfg.Game.TPS)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	game := newGame(scheduler, cfg, log)
	if err := ebiten.RunGame(game); err != nil && !eris.Is(err, ebiten.Termination) {
		return eris.Wrap(err, "run game")
	}
	log.Info("game stopped", zap.Int64("frames", scheduler.GetStats().Frames))
	return nil
}
