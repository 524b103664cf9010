package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	debugui_ebiten "github.com/plus3/skirmish/ecs/debugui/ebiten"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/config"
	"github.com/plus3/skirmish/internal/render"
	"go.uber.org/zap"
)

// Game drives the scheduler from ebiten's fixed-rate Update and Draw.
type Game struct {
	scheduler *ecs.Scheduler
	log       *zap.Logger
	dt        float64

	backend    *ecs.Singleton[debugui_ebiten.ImguiBackend]
	overlay    *ecs.Singleton[debugui.Overlay]
	imguiInput *ecs.Singleton[debugui.ImguiInputState]
	screen     *ecs.Singleton[render.Screen]
	camera     *ecs.Singleton[components.Camera]
}

func newGame(scheduler *ecs.Scheduler, cfg *config.Config, log *zap.Logger) *Game {
	r := scheduler.Registry()
	return &Game{
		scheduler:  scheduler,
		log:        log,
		dt:         1.0 / float64(cfg.Game.TPS),
		backend:    ecs.NewSingleton[debugui_ebiten.ImguiBackend](r),
		overlay:    ecs.NewSingleton[debugui.Overlay](r),
		imguiInput: ecs.NewSingleton[debugui.ImguiInputState](r),
		screen:     ecs.NewSingleton[render.Screen](r),
		camera:     ecs.NewSingleton[components.Camera](r),
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) && !g.imguiInput.Get().WantCaptureKeyboard {
		overlay := g.overlay.Get()
		overlay.Visible = !overlay.Visible
		g.log.Debug("debug overlay toggled", zap.Bool("visible", overlay.Visible))
	}

	backend := g.backend.Get()
	backend.BeginFrame()
	g.scheduler.Once(g.dt)
	backend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Get().Image = screen

	bounds := screen.Bounds()
	camera := g.camera.Get()
	camera.Width, camera.Height = bounds.Dx(), bounds.Dy()

	g.scheduler.Draw()

	if g.overlay.Get().Shown() {
		g.backend.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
