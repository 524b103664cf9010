// Package render draws the world onto the frame's Screen during the
// scheduler's render phase.
package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
)

// Screen is the image being drawn this frame, held as a registry singleton
// and replaced by the game before every render pass.
type Screen struct {
	*ebiten.Image
}

// Assets is the lookup the render systems need from the asset store.
type Assets interface {
	Texture(id string) *ebiten.Image
	FontOrDefault(id string, size float64) text.Face
}

var background = color.RGBA{21, 21, 21, 255}

// Visible reports whether a sprite at t overlaps the camera viewport.
func Visible(t *components.Transform, s *components.Sprite, camera components.Camera) bool {
	bounds := components.Rect{
		X: t.Position.X,
		Y: t.Position.Y,
		W: t.Scale.X * float64(s.Width),
		H: t.Scale.Y * float64(s.Height),
	}
	return !(bounds.X+bounds.W < camera.X ||
		bounds.X > camera.X+float64(camera.Width) ||
		bounds.Y+bounds.H < camera.Y ||
		bounds.Y > camera.Y+float64(camera.Height))
}

// SpriteGeoM places a sprite's source image on screen: flipped inside its
// own bounds, scaled, rotated clockwise about its scaled centre and
// translated by the camera unless the sprite is fixed.
func SpriteGeoM(t *components.Transform, s *components.Sprite, camera components.Camera) ebiten.GeoM {
	w, h := float64(s.Width), float64(s.Height)

	var m ebiten.GeoM
	switch s.Flip {
	case components.FlipHorizontal:
		m.Scale(-1, 1)
		m.Translate(w, 0)
	case components.FlipVertical:
		m.Scale(1, -1)
		m.Translate(0, h)
	}
	m.Scale(t.Scale.X, t.Scale.Y)

	if t.Rotation != 0 {
		cx, cy := w*t.Scale.X/2, h*t.Scale.Y/2
		m.Translate(-cx, -cy)
		m.Rotate(t.Rotation * math.Pi / 180)
		m.Translate(cx, cy)
	}

	x, y := t.Position.X, t.Position.Y
	if !s.IsFixed {
		x -= camera.X
		y -= camera.Y
	}
	m.Translate(x, y)
	return m
}

type drawable struct {
	transform *components.Transform
	sprite    *components.Sprite
}

// SpriteSystem draws every sprite inside the camera, lowest z-index first.
// Fixed sprites are never culled.
type SpriteSystem struct {
	ecs.System
	Screen ecs.Singleton[Screen]
	Camera ecs.Singleton[components.Camera]

	assets Assets
	queue  []drawable
}

func NewSpriteSystem(assets Assets) *SpriteSystem {
	s := &SpriteSystem{assets: assets}
	ecs.Require[components.Transform](&s.System)
	ecs.Require[components.Sprite](&s.System)
	return s
}

func (s *SpriteSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	var camera components.Camera
	if c := s.Camera.Get(); c != nil {
		camera = *c
	}

	screen.Fill(background)

	s.queue = s.queue[:0]
	for _, e := range s.Entities() {
		t := ecs.GetComponent[components.Transform](frame.Registry, e)
		sp := ecs.GetComponent[components.Sprite](frame.Registry, e)
		if !sp.IsFixed && !Visible(t, sp, camera) {
			continue
		}
		s.queue = append(s.queue, drawable{t, sp})
	}
	slices.SortStableFunc(s.queue, func(a, b drawable) int {
		return cmp.Compare(a.sprite.ZIndex, b.sprite.ZIndex)
	})

	for _, d := range s.queue {
		tex := s.assets.Texture(d.sprite.AssetId)
		if tex == nil {
			continue
		}
		src := tex
		if !d.sprite.SrcRect.Empty() {
			src = tex.SubImage(d.sprite.SrcRect).(*ebiten.Image)
		}
		op := &ebiten.DrawImageOptions{GeoM: SpriteGeoM(d.transform, d.sprite, camera)}
		screen.DrawImage(src, op)
	}
}
