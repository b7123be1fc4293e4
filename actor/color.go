package actor

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/actorconf/props"
	"golang.org/x/image/colornames"
)

var ErrInvalidColor = errors.New("actor: invalid color")

// ParseColor accepts a color name ("crimson"), a hex string ("#ff0000" or
// "#ff000080") or a sequence of 3 or 4 channel values in the 0..1 range.
func ParseColor(v any) (color.NRGBA, error) {
	switch c := v.(type) {
	case string:
		return parseColorString(c)
	case []any:
		return parseColorChannels(c)
	}
	return color.NRGBA{}, fmt.Errorf("%w: %v", ErrInvalidColor, v)
}

func parseColorString(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex)
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: unknown color name %q", ErrInvalidColor, s)
	}
	return color.NRGBAModel.Convert(named).(color.NRGBA), nil
}

func parseHex(s string) (color.NRGBA, error) {
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var out color.NRGBA
	var err error
	if out.R, err = parse(0); err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if out.G, err = parse(2); err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if out.B, err = parse(4); err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	out.A = 255
	if len(s) == 8 {
		if out.A, err = parse(6); err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	return out, nil
}

func parseColorChannels(seq []any) (color.NRGBA, error) {
	if len(seq) != 3 && len(seq) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: want 3 or 4 channels, got %d", ErrInvalidColor, len(seq))
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, v := range seq {
		f, err := props.Convert[float64](v)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, fmt.Errorf("%w: channel %d out of range: %v", ErrInvalidColor, i, v)
		}
		ch[i] = uint8(f*255 + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
