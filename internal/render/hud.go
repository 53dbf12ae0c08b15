package render

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorBgDark    = rl.NewColor(18, 18, 24, 220)
	colorBgElement = rl.NewColor(32, 32, 42, 255)
	colorAccent    = rl.NewColor(99, 102, 241, 255)
	colorText      = rl.NewColor(225, 225, 235, 255)
)

// Stats is what the HUD shows for one frame.
type Stats struct {
	FPS         int32
	Elapsed     float32
	Steps       uint64
	Bodies      int
	Sleeping    int
	Controllers int
	Touching    int
	Mismatches  int
	Culled      int
}

// Lines renders the stats as HUD rows.
func (s Stats) Lines() []string {
	return []string{
		fmt.Sprintf("FPS %d  (%.1f ms)", s.FPS, s.Elapsed*1000),
		fmt.Sprintf("Steps %d", s.Steps),
		fmt.Sprintf("Bodies %d  asleep %d", s.Bodies, s.Sleeping),
		fmt.Sprintf("Controllers %d", s.Controllers),
		fmt.Sprintf("Touching %d", s.Touching),
		fmt.Sprintf("Device errors %d", s.Mismatches),
		fmt.Sprintf("Culled %d", s.Culled),
	}
}

// HUD is the raygui overlay in the desktop mirror. Paused is toggled from
// the panel and read by the game loop.
type HUD struct {
	Visible bool
	Paused  bool
	X, Y    float32

	styled bool
}

func NewHUD() *HUD {
	return &HUD{Visible: true, X: 10, Y: 10}
}

func (h *HUD) applyStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
	h.styled = true
}

const (
	hudWidth   = 220
	hudRow     = 20
	hudPadding = 8
)

func (h *HUD) Draw(stats Stats) {
	if !h.Visible {
		return
	}
	if !h.styled {
		h.applyStyle()
	}

	lines := stats.Lines()
	height := float32(hudPadding*2 + hudRow*(len(lines)+2))
	gui.Panel(rl.NewRectangle(h.X, h.Y, hudWidth, height), "Sandbox")

	y := h.Y + hudRow + hudPadding
	for _, line := range lines {
		gui.Label(rl.NewRectangle(h.X+hudPadding, y, hudWidth-2*hudPadding, hudRow), line)
		y += hudRow
	}
	h.Paused = gui.CheckBox(rl.NewRectangle(h.X+hudPadding, y+4, 12, 12), "Pause physics", h.Paused)
}
