package home

import (
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

// TrophyVariant selects which trophy art to display.
type TrophyVariant int

const (
	TrophyEmpty TrophyVariant = iota // No champion yet
	TrophyGold                       // A champion holds the title
)

const trophyEmpty = `  ___  
 (   ) 
  \ /  
  _|_  
 |___| `

const trophyGold = `  ___  
 ( ★ ) 
  \ /  
  _|_  
 |_1_| `

// RenderTrophy returns the trophy art for the given variant.
func RenderTrophy(v TrophyVariant) string {
	art, fg := trophyEmpty, theme.TextDim
	if v == TrophyGold {
		art, fg = trophyGold, theme.ArcadeYellow
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
