// Package assets loads and caches the textures and fonts referenced by
// levels and the HUD.
package assets

import (
	"bytes"
	"maps"
	"os"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrUnknownAsset = eris.New("unknown asset")

// Store maps asset ids to loaded textures and font faces. Font files are
// parsed once and shared between faces of different sizes.
type Store struct {
	textures map[string]*ebiten.Image
	fonts    map[string]*text.GoTextFace
	sources  map[string]*text.GoTextFaceSource
	fallback *text.GoTextFaceSource
	log      *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{
		textures: make(map[string]*ebiten.Image),
		fonts:    make(map[string]*text.GoTextFace),
		sources:  make(map[string]*text.GoTextFaceSource),
		log:      log.Named("assets"),
	}
}

// AddTexture decodes the image at path and stores it under id, replacing any
// texture already stored there.
func (s *Store) AddTexture(id, path string) error {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return eris.Wrapf(err, "load texture %q", id)
	}
	s.AddTextureImage(id, img)
	s.log.Debug("texture added", zap.String("id", id), zap.String("path", path))
	return nil
}

// AddTextureImage stores an already created image under id.
func (s *Store) AddTextureImage(id string, img *ebiten.Image) {
	if old, ok := s.textures[id]; ok && old != img {
		old.Deallocate()
	}
	s.textures[id] = img
}

// Texture returns the texture stored under id, or nil.
func (s *Store) Texture(id string) *ebiten.Image {
	return s.textures[id]
}

// AddFont parses the font file at path and stores a face of the given size
// under id.
func (s *Store) AddFont(id, path string, size float64) error {
	source, ok := s.sources[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "load font %q", id)
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return eris.Wrapf(err, "parse font %q", id)
		}
		s.sources[path] = source
	}
	s.fonts[id] = &text.GoTextFace{Source: source, Size: size}
	s.log.Debug("font added", zap.String("id", id), zap.String("path", path), zap.Float64("size", size))
	return nil
}

// Font returns the face stored under id.
func (s *Store) Font(id string) (text.Face, error) {
	face, ok := s.fonts[id]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownAsset, "font %q", id)
	}
	return face, nil
}

// FontOrDefault returns the face stored under id, falling back to Go
// Regular at size when it is missing.
func (s *Store) FontOrDefault(id string, size float64) text.Face {
	if face, ok := s.fonts[id]; ok {
		return face
	}
	if s.fallback == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			// goregular is embedded and always parses
			panic(err)
		}
		s.fallback = source
	}
	return &text.GoTextFace{Source: s.fallback, Size: size}
}

func (s *Store) TextureIds() []string {
	return slices.Sorted(maps.Keys(s.textures))
}

func (s *Store) FontIds() []string {
	return slices.Sorted(maps.Keys(s.fonts))
}

// ClearAssets releases every texture and font.
func (s *Store) ClearAssets() {
	for _, img := range s.textures {
		img.Deallocate()
	}
	clear(s.textures)
	clear(s.fonts)
	clear(s.sources)
	s.log.Debug("assets cleared")
}
