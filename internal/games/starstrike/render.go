package starstrike

import (
	"fmt"
	"strings"
	"time"

	platformcore "github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
)

// Minimum terminal size for a playable view.
const (
	MinScreenW = 40
	MinScreenH = 16
)

// hudRows is the number of rows above the field.
const hudRows = 2

// HUD is the status shown above the field.
type HUD struct {
	Score    int    `json:"score"`
	Lives    int    `json:"lives"`
	Level    int    `json:"level"`
	Coins    int    `json:"coins"`
	Combo    int    `json:"combo"`
	MaxCombo int    `json:"max_combo"`
	Shots    int    `json:"shots"`
	Effects  string `json:"effects,omitempty"`
	State    string `json:"state"`
}

// Frame is everything needed to draw one view of a game. It is what a
// remote peer receives.
type Frame struct {
	Tick    uint64        `json:"tick"`
	FieldW  int           `json:"fw"`
	FieldH  int           `json:"fh"`
	HUD     HUD           `json:"hud"`
	Sprites []core.Sprite `json:"sprites"`
}

// Frame captures the current view.
func (g *Game) Frame() Frame {
	return Frame{
		Tick:    g.tick,
		FieldW:  g.cfg.Field.Width,
		FieldH:  g.cfg.Field.Height,
		HUD:     g.hud(),
		Sprites: g.stage.Sprites(),
	}
}

func (g *Game) hud() HUD {
	return HUD{
		Score:    g.score,
		Lives:    g.lives,
		Level:    g.level,
		Coins:    g.coins,
		Combo:    g.stage.Resolver.Combo(),
		MaxCombo: g.maxCombo,
		Shots:    g.stage.Ship.Shots,
		Effects:  g.effects(),
		State:    g.state,
	}
}

// effects builds the compact active-effect line.
func (g *Game) effects() string {
	var parts []string
	if d := g.stage.Items.GhostRemaining(); d > 0 {
		parts = append(parts, fmt.Sprintf("GHOST %ds", secondsLeft(d)))
	}
	if d := g.stage.Items.TimeStopRemaining(); d > 0 {
		parts = append(parts, fmt.Sprintf("FREEZE %ds", secondsLeft(d)))
	}
	if g.itemBanner > 0 {
		parts = append(parts, "+"+strings.ToUpper(g.lastItem.String()))
	}
	return strings.Join(parts, "  ")
}

func secondsLeft(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	DrawFrame(dst, g.Frame())
}

// DrawFrame draws a frame scaled to fill dst.
func DrawFrame(dst *platformcore.Screen, f Frame) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH))
		return
	}

	drawHUD(dst, f.HUD)
	area := platformcore.NewRect(0, hudRows, dst.Width(), dst.Height()-hudRows)
	DrawSprites(dst, area, f.Sprites, f.FieldW, f.FieldH)
	drawOverlay(dst, f.HUD)
}

func drawHUD(dst *platformcore.Screen, h HUD) {
	left := fmt.Sprintf("Score: %d  Lives: %d  Level: %d", h.Score, h.Lives, h.Level)
	dst.DrawText(1, 0, left)

	right := fmt.Sprintf("Combo: %d (max %d)  Coins: %d", h.Combo, h.MaxCombo, h.Coins)
	if h.Shots > 1 {
		right = fmt.Sprintf("x%d  ", h.Shots) + right
	}
	dst.DrawTextColored(dst.Width()-len([]rune(right))-1, 0, right, platformcore.ColorYellow)

	if h.Effects != "" {
		dst.DrawTextColored(1, 1, h.Effects, platformcore.ColorCyan)
		return
	}
	for x := range dst.Width() {
		dst.SetColored(x, 1, '─', platformcore.ColorGray)
	}
}

// DrawSprites scales field-unit sprites into area. Every sprite covers
// at least one cell.
func DrawSprites(dst *platformcore.Screen, area platformcore.Rect, sprites []core.Sprite, fieldW, fieldH int) {
	for _, sp := range sprites {
		x0 := area.X + platformcore.Scale(sp.X, fieldW, area.W)
		x1 := area.X + platformcore.Scale(sp.X+sp.W, fieldW, area.W)
		y0 := area.Y + platformcore.Scale(sp.Y, fieldH, area.H)
		y1 := area.Y + platformcore.Scale(sp.Y+sp.H, fieldH, area.H)
		x1 = max(x1, x0+1)
		y1 = max(y1, y0+1)

		r, c := spriteGlyph(sp)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if area.Contains(x, y) {
					dst.SetColored(x, y, r, c)
				}
			}
		}
	}
}

var unitGlyphs = [][2]rune{
	{'▿', '▾'},
	{'◇', '◆'},
	{'▽', '▼'},
}

var tierColors = []platformcore.Color{
	platformcore.ColorGreen,
	platformcore.ColorCyan,
	platformcore.ColorMagenta,
}

func spriteGlyph(sp core.Sprite) (rune, platformcore.Color) {
	switch sp.Kind {
	case core.SpriteUnit:
		t := platformcore.Clamp(sp.Variant-1, 0, len(unitGlyphs)-1)
		return unitGlyphs[t][sp.Frame&1], tierColors[t]
	case core.SpriteDiver:
		if sp.Tint {
			return '¥', platformcore.ColorRed
		}
		return '¥', platformcore.ColorYellow
	case core.SpriteExplosion:
		return '*', platformcore.ColorOrange
	case core.SpritePlayer:
		c := platformcore.ColorWhite
		if sp.Variant == 1 {
			c = platformcore.ColorBlue
		}
		if sp.Tint {
			c = platformcore.ColorGray
		}
		return '▲', c
	case core.SpritePlayerBullet:
		return '│', platformcore.ColorWhite
	case core.SpriteEnemyBullet:
		return '¦', platformcore.ColorRed
	case core.SpriteItemBox:
		return '?', platformcore.ColorYellow
	case core.SpriteBarrier:
		return '▀', platformcore.ColorBlue
	case core.SpriteObstacle:
		return '█', platformcore.ColorGray
	case core.SpriteSpecial:
		return '◊', platformcore.ColorRed
	default:
		return '·', platformcore.ColorDefault
	}
}

func drawOverlay(dst *platformcore.Screen, h HUD) {
	switch h.State {
	case StateRespawn:
		dst.DrawTextCentered(dst.Height()-1, "Get ready...")
	case StatePaused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
	case StateGameOver:
		drawCenteredBox(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", h.Score))
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *platformcore.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	box := platformcore.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box)
	dst.DrawText(box.X+(boxW-len(title))/2, box.Y+1, title)
	dst.DrawText(box.X+(boxW-len(subtitle))/2, box.Y+3, subtitle)
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Frame) IsGameSnapshot() {}
