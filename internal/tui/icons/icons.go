// ABOUTME: Icon set with Nerd Font detection and a plain Unicode fallback
// ABOUTME: GCDL_NERD_FONTS forces the choice; otherwise known terminals enable Nerd Fonts

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts bool
	detectOnce   sync.Once
)

var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

func detectNerdFonts() bool {
	if env := os.Getenv("GCDL_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}
	term := os.Getenv("TERM")
	program := os.Getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(program, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// HasNerdFonts reports whether Nerd Font glyphs are used. Detection runs once.
func HasNerdFonts() bool {
	detectOnce.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon has a Nerd Font glyph and a Unicode fallback.
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	App    = Icon{"󰹢", "❀"} // nf-md-sprout
	User   = Icon{"", "●"} // nf-fa-user
	Lock   = Icon{"", "■"} // nf-fa-lock
	Branch = Icon{"󰇈", "▣"} // nf-md-domain

	Sales       = Icon{"󰄐", "$"} // nf-md-cash
	Procurement = Icon{"󰏗", "▼"} // nf-md-package_down
	Stock       = Icon{"󰆼", "▤"} // nf-md-database
	Credit      = Icon{"󰆛", "≈"} // nf-md-credit_card
	Profit      = Icon{"󰄬", "↗"} // nf-md-trending_up
	Tonnage     = Icon{"󰖡", "⚖"} // nf-md-weight
	Produce     = Icon{"󰋇", "✿"} // nf-md-leaf
	Report      = Icon{"󰈙", "▦"} // nf-md-file_document

	CheckOK  = Icon{"", "✓"}
	Warning  = Icon{"", "⚠"}
	Critical = Icon{"", "✗"}

	Refresh  = Icon{"󰑓", "↻"}
	Menu     = Icon{"󰍜", "≡"}
	Back     = Icon{"󰁍", "←"}
	Quit     = Icon{"󰗼", "×"}
	Logout   = Icon{"󰍃", "⇥"}
	Settings = Icon{"󰒓", "⚙"}
)
