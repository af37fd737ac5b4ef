package collection

import "github.com/galleryhub/galleryhub/internal/models"

// Zoom bounds for the image preview.
const (
	ZoomMin   = 0.25
	ZoomMax   = 5.0
	ZoomStep  = 0.25
	ZoomReset = 1.0
)

// Preview is the full-screen image preview state: the current index into
// the owning collection, the zoom level, and whether the image bytes
// have arrived yet. Keyboard handling is attached only while the preview
// is open.
type Preview struct {
	items  []models.MediaItem
	index  int
	zoom   float64
	open   bool
	loaded bool
}

// OpenPreview opens the preview at the given index. Zoom is reset and
// the image is marked not-yet-loaded until MarkLoaded is called.
func (c *Controller) OpenPreview(index int) *Preview {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return &Preview{items: c.items, index: index, zoom: ZoomReset, open: true}
}

// Open reports whether the preview is showing.
func (p *Preview) Open() bool { return p != nil && p.open }

// Close dismisses the preview and resets its transient state.
func (p *Preview) Close() {
	p.open = false
	p.zoom = ZoomReset
	p.loaded = false
	p.index = 0
}

// Current returns the item under preview.
func (p *Preview) Current() models.MediaItem { return p.items[p.index] }

// Index returns the current position.
func (p *Preview) Index() int { return p.index }

// Zoom returns the current zoom level.
func (p *Preview) Zoom() float64 { return p.zoom }

// Loaded reports whether the current image has finished loading.
func (p *Preview) Loaded() bool { return p.loaded }

// MarkLoaded records that the current image's bytes arrived.
func (p *Preview) MarkLoaded() { p.loaded = true }

// ZoomIn increases zoom by one step, clamped at ZoomMax.
func (p *Preview) ZoomIn() {
	if p.zoom+ZoomStep > ZoomMax {
		p.zoom = ZoomMax
		return
	}
	p.zoom += ZoomStep
}

// ZoomOut decreases zoom by one step, clamped at ZoomMin.
func (p *Preview) ZoomOut() {
	if p.zoom-ZoomStep < ZoomMin {
		p.zoom = ZoomMin
		return
	}
	p.zoom -= ZoomStep
}

// ResetZoom returns zoom to exactly 1.0.
func (p *Preview) ResetZoom() { p.zoom = ZoomReset }

// Next advances to the following image. At the last index the position
// is left unchanged (clamped, not wrapping).
func (p *Preview) Next() {
	if p.index >= len(p.items)-1 {
		return
	}
	p.index++
	p.zoom = ZoomReset
	p.loaded = false
}

// Prev steps back to the previous image, clamped at index 0.
func (p *Preview) Prev() {
	if p.index <= 0 {
		return
	}
	p.index--
	p.zoom = ZoomReset
	p.loaded = false
}

// HandleKey applies one keyboard command while the preview is open:
// "esc" closes, "+"/"=" and "-" zoom, "0" resets, "right"/"left"
// navigate. Unknown keys are ignored. Returns false once the preview
// has been closed.
func (p *Preview) HandleKey(key string) bool {
	if !p.Open() {
		return false
	}
	switch key {
	case "esc", "escape", "q":
		p.Close()
	case "+", "=":
		p.ZoomIn()
	case "-":
		p.ZoomOut()
	case "0":
		p.ResetZoom()
	case "right", "n":
		p.Next()
	case "left", "p":
		p.Prev()
	}
	return p.Open()
}
