//go:build cgo

package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-phong-raytracer/viewer/session"
)

// runWindow opens a resizable window showing the session's frame.
// It blocks until the window closes or Esc/Q is pressed.
func runWindow(s *session.Session, width, height int) error {
	g := &viewerGame{session: s, pendingW: width, pendingH: height}

	ebiten.SetWindowTitle("Phong Raytracer")
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type viewerGame struct {
	session            *session.Session
	pendingW, pendingH int
	frameImg           *ebiten.Image
	dirty              bool
}

func (g *viewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	rendered, err := g.session.Resize(context.Background(), g.pendingW, g.pendingH)
	if err != nil {
		return err
	}
	if rendered {
		g.dirty = true
	}
	return nil
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	img := g.session.Image()
	if img == nil {
		return
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if g.frameImg == nil || g.frameImg.Bounds().Dx() != w || g.frameImg.Bounds().Dy() != h {
		if g.frameImg != nil {
			g.frameImg.Deallocate()
		}
		g.frameImg = ebiten.NewImage(w, h)
		g.dirty = true
	}
	if g.dirty {
		g.frameImg.WritePixels(img.Pix)
		g.dirty = false
	}
	screen.DrawImage(g.frameImg, nil)
}

// Layout renders at the window's pixel size; a change is picked up by the next Update
func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.pendingW, g.pendingH = outsideWidth, outsideHeight
	}
	return g.pendingW, g.pendingH
}
