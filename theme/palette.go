package theme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrNotGPL is returned when a file lacks the "GIMP Palette" magic line
var ErrNotGPL = errors.New("not a GIMP palette")

// RGB is one 8-bit colour
type RGB [3]uint8

// Palette is an ordered colour ramp. Lookup walks it from first to last.
type Palette struct {
	Name   string
	Colors []RGB
}

// Plasma is the built-in palette, dark purple through magenta to yellow
func Plasma() *Palette {
	return &Palette{
		Name: "Plasma",
		Colors: []RGB{
			{13, 8, 135},
			{84, 2, 163},
			{139, 10, 165},
			{185, 50, 137},
			{219, 92, 104},
			{244, 136, 73},
			{254, 188, 43},
			{240, 249, 33},
		},
	}
}

// LoadGPL reads a GIMP .gpl palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseGPL decodes a palette. Each colour line is three channel values
// 0-255 optionally followed by a label.
func ParseGPL(r io.Reader) (*Palette, error) {
	sc := bufio.NewScanner(r)
	p := &Palette{}
	magic := false
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if !magic {
			if line != "GIMP Palette" {
				return nil, ErrNotGPL
			}
			magic = true
			continue
		}

		key, val, isHeader := strings.Cut(line, ":")
		switch {
		case line == "", strings.HasPrefix(line, "#"):
		case isHeader && key == "Name":
			p.Name = strings.TrimSpace(val)
		case isHeader && key == "Columns":
		default:
			c, err := parseRGB(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			p.Colors = append(p.Colors, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !magic {
		return nil, ErrNotGPL
	}
	if len(p.Colors) == 0 {
		return nil, errors.New("palette has no colors")
	}
	return p, nil
}

func parseRGB(line string) (RGB, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RGB{}, fmt.Errorf("expected 3 channels, got %q", line)
	}
	var c RGB
	for i := range c {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("channel %q: must be 0-255", fields[i])
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// Lookup maps norm in [0, 1] onto the ramp, blending the two nearest
// colours. Values outside the range clamp to the ends.
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	norm = math.Max(0, math.Min(1, norm))
	if last == 0 || norm == 0 || math.IsNaN(norm) {
		return p.Colors[0]
	}

	pos := norm * float64(last)
	seg := math.Min(math.Floor(pos), float64(last-1))
	from, to := p.Colors[int(seg)], p.Colors[int(seg)+1]
	t := pos - seg

	var out RGB
	for i := range out {
		out[i] = uint8(math.Round(float64(from[i]) + (float64(to[i])-float64(from[i]))*t))
	}
	return out
}
