package diagram

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"encoding/xml"
)

// Info is the extent of an SVG background diagram in mm. One SVG user
// unit maps to one millimeter.
type Info struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ViewBox [4]float64
	HasView bool
}

// Parse extracts the diagram extent from an SVG document. The width and
// height attributes win when present; otherwise the viewBox extent is
// used. Nested <svg> elements are ignored — only the root counts.
func Parse(r io.Reader) (Info, error) {
	dec := xml.NewDecoder(r)
	// Floor plan exports from CAD tools often carry custom entities.
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return Info{}, fmt.Errorf("no svg root element found")
		}
		if err != nil {
			return Info{}, fmt.Errorf("parse svg: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return Info{}, fmt.Errorf("root element is <%s>, not <svg>", start.Name.Local)
		}
		return infoFromRoot(start)
	}
}

// ParseString is Parse over in-memory SVG data.
func ParseString(data string) (Info, error) {
	return Parse(strings.NewReader(data))
}

func infoFromRoot(root xml.StartElement) (Info, error) {
	var info Info
	var wRaw, hRaw, vbRaw string
	for _, attr := range root.Attr {
		switch attr.Name.Local {
		case "width":
			wRaw = attr.Value
		case "height":
			hRaw = attr.Value
		case "viewBox":
			vbRaw = attr.Value
		}
	}

	if vbRaw != "" {
		vb, err := parseViewBox(vbRaw)
		if err != nil {
			return Info{}, err
		}
		info.ViewBox = vb
		info.HasView = true
		info.Width = vb[2]
		info.Height = vb[3]
	}

	// Explicit dimensions override the viewBox extent.
	if wRaw != "" {
		w, err := parseLength(wRaw)
		if err != nil {
			return Info{}, fmt.Errorf("svg width: %w", err)
		}
		info.Width = w
	}
	if hRaw != "" {
		h, err := parseLength(hRaw)
		if err != nil {
			return Info{}, fmt.Errorf("svg height: %w", err)
		}
		info.Height = h
	}

	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("svg has no usable extent (width=%q height=%q viewBox=%q)", wRaw, hRaw, vbRaw)
	}
	return info, nil
}

// parseLength reads an SVG length, stripping a trailing unit. Units are
// treated as user units: the editor's mm-per-px convention already
// fixes the physical mapping.
func parseLength(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "%") {
		return 0, fmt.Errorf("percentage lengths are not supported: %q", raw)
	}
	trimmed := strings.TrimRightFunc(raw, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", raw)
	}
	return v, nil
}

func parseViewBox(raw string) ([4]float64, error) {
	var vb [4]float64
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return vb, fmt.Errorf("viewBox needs 4 values, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return vb, fmt.Errorf("invalid viewBox value %q", f)
		}
		vb[i] = v
	}
	if vb[2] <= 0 || vb[3] <= 0 {
		return vb, fmt.Errorf("viewBox extent must be positive, got %gx%g", vb[2], vb[3])
	}
	return vb, nil
}
