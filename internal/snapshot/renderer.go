// internal/snapshot/renderer.go
package snapshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/lookmate/lookmate-backend/internal/models"
)

const (
	// DefaultWidth and DefaultHeight are the fitting canvas size in display
	// pixels (3:4 portrait).
	DefaultWidth  = 450
	DefaultHeight = 600

	// OutputScale is the resolution multiplier applied to the display size.
	OutputScale = 2

	// LayerWidthRatio is the width of an untransformed layer relative to the canvas.
	LayerWidthRatio = 0.6
)

var (
	canvasBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	avatarFallback   = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
)

// Layer is one visible clothing image with its transform.
type Layer struct {
	ImageURL string
	models.FittingLayer
}

// Composition is what the fitting room shows: an avatar under ordered layers.
type Composition struct {
	AvatarURL string
	Layers    []Layer
	Width     int
	Height    int
}

// NewComposition resolves layer images from the closet. Hidden layers and
// layers whose item is no longer in the closet are left out, as they are not
// on screen either.
func NewComposition(avatarURL string, layers models.FittingLayers, closet []models.ClothingItem) Composition {
	images := make(map[uuid.UUID]string, len(closet))
	for _, item := range closet {
		images[item.ID] = item.ImageURL
	}

	comp := Composition{AvatarURL: avatarURL, Width: DefaultWidth, Height: DefaultHeight}
	for _, layer := range layers {
		url, ok := images[layer.ClothingID]
		if !ok || !layer.Visible {
			continue
		}
		comp.Layers = append(comp.Layers, Layer{ImageURL: url, FittingLayer: layer})
	}
	return comp
}

// ImageLoader fetches and decodes an image by URL.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

type Renderer struct {
	loader ImageLoader
	scale  float64
}

func NewRenderer(loader ImageLoader) *Renderer {
	return &Renderer{loader: loader, scale: OutputScale}
}

// Render rasterizes the composition and returns it as a PNG data URL. Any
// image that fails to load fails the whole render.
func (r *Renderer) Render(ctx context.Context, comp Composition) (string, error) {
	img, err := r.Rasterize(ctx, comp)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RenderBestEffort makes a single render attempt. On failure it returns a nil
// snapshot and the error as a warning so the caller can save without a preview.
func (r *Renderer) RenderBestEffort(ctx context.Context, comp Composition) (*string, error) {
	dataURL, err := r.Render(ctx, comp)
	if err != nil {
		logrus.WithError(err).Warn("Snapshot rendering failed, saving without preview")
		return nil, err
	}
	return &dataURL, nil
}

// Rasterize draws the avatar and then each layer in order, later layers on top.
func (r *Renderer) Rasterize(ctx context.Context, comp Composition) (*image.RGBA, error) {
	width, height := comp.Width, comp.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	outW := int(math.Round(float64(width) * r.scale))
	outH := int(math.Round(float64(height) * r.scale))

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(canvasBackground), image.Point{}, xdraw.Src)

	if comp.AvatarURL == "" {
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(avatarFallback), image.Point{}, xdraw.Src)
	} else {
		avatar, err := r.loader.Load(ctx, comp.AvatarURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load avatar: %w", err)
		}
		xdraw.BiLinear.Transform(dst, coverTransform(avatar.Bounds(), outW, outH), avatar, avatar.Bounds(), xdraw.Over, nil)
	}

	for _, layer := range comp.Layers {
		if !layer.Visible {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, err := r.loader.Load(ctx, layer.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load layer %s: %w", layer.ClothingID, err)
		}
		m := layerTransform(src.Bounds(), layer.FittingLayer, float64(width), float64(height), r.scale)
		xdraw.BiLinear.Transform(dst, m, src, src.Bounds(), xdraw.Over, nil)
	}

	return dst, nil
}

// coverTransform scales src to fill outW x outH keeping its aspect ratio,
// centered and cropped.
func coverTransform(src image.Rectangle, outW, outH int) f64.Aff3 {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	k := math.Max(float64(outW)/sw, float64(outH)/sh)
	cx := float64(src.Min.X) + sw/2
	cy := float64(src.Min.Y) + sh/2
	return f64.Aff3{
		k, 0, float64(outW)/2 - k*cx,
		0, k, float64(outH)/2 - k*cy,
	}
}

// layerTransform maps source pixels to the output canvas. The layer is first
// sized to LayerWidthRatio of the canvas and centered, then offset by (x, y),
// scaled, and rotated clockwise about its own center.
func layerTransform(src image.Rectangle, layer models.FittingLayer, width, height, outScale float64) f64.Aff3 {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	fit := width * LayerWidthRatio / sw

	scale := layer.Scale
	if scale == 0 {
		scale = 1
	}
	k := outScale * scale * fit

	rad := layer.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	// Source center and its destination
	scx := float64(src.Min.X) + sw/2
	scy := float64(src.Min.Y) + sh/2
	dcx := outScale * (width/2 + layer.X)
	dcy := outScale * (height/2 + layer.Y)

	a00, a01 := k*cos, -k*sin
	a10, a11 := k*sin, k*cos
	return f64.Aff3{
		a00, a01, dcx - (a00*scx + a01*scy),
		a10, a11, dcy - (a10*scx + a11*scy),
	}
}
