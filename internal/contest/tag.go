package contest

import (
	"fmt"
	"regexp"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	tagNameRegexp  = regexp.MustCompile(`^[a-z-]+$`)
	tagColorRegexp = regexp.MustCompile(`^#(?:[A-Fa-f0-9]{3}){1,2}$`)
)

// Tag is a label attached to contests, with a display color.
type Tag struct {
	Name        string `gorm:"primaryKey"`
	Color       string
	Description string
}

func (t *Tag) Validate() error {
	if !tagNameRegexp.MatchString(t.Name) {
		return fmt.Errorf("tag name: lowercase letters and hyphens only")
	}
	if !tagColorRegexp.MatchString(t.Color) {
		return fmt.Errorf("invalid tag colour")
	}
	return nil
}

// TextColor picks black or white text to stay readable on the tag's
// background color.
func (t *Tag) TextColor() string {
	col, err := colorful.Hex(t.Color)
	if err != nil {
		return "#000"
	}
	r, g, b := col.RGB255()
	if 299*int(r)+587*int(g)+144*int(b) > 140000 {
		return "#000"
	}
	return "#fff"
}
