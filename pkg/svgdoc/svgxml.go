package svgdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const (
	header  = `<?xml version="1.0" encoding="UTF-8" ?>` + "\n"
	doctype = `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n"

	svgNamespace = "http://www.w3.org/2000/svg"
)

// Line is one stroke of the drawing, in pixel coordinates.
type Line struct {
	X1, Y1 int
	X2, Y2 int
	Gray   uint8
}

// Document is the line-art drawing of one image.
type Document struct {
	Width  int
	Height int
	// FlipY mirrors the drawing vertically when displayed. Set it when the grid
	// was flipped for the machine, so that the SVG still shows the image upright.
	FlipY bool
	Lines []Line
}

func (d *Document) AddLine(l Line) {
	d.Lines = append(d.Lines, l)
}

type SVGXMLNode struct {
	XMLName     xml.Name
	Xmlns       string        `xml:"xmlns,attr,omitempty"`
	Width       string        `xml:"width,attr,omitempty"`
	Height      string        `xml:"height,attr,omitempty"`
	ViewBox     string        `xml:"viewBox,attr,omitempty"`
	Version     string        `xml:"version,attr,omitempty"`
	Stroke      string        `xml:"stroke,attr,omitempty"`
	StrokeWidth string        `xml:"stroke-width,attr,omitempty"`
	Transform   string        `xml:"transform,attr,omitempty"`
	X1          string        `xml:"x1,attr,omitempty"`
	Y1          string        `xml:"y1,attr,omitempty"`
	X2          string        `xml:"x2,attr,omitempty"`
	Y2          string        `xml:"y2,attr,omitempty"`
	Styles      string        `xml:"style,attr,omitempty"`
	Children    []*SVGXMLNode `xml:",any"`
}

// Parse reads a document written by Encode back into nodes.
func Parse(data []byte) (*SVGXMLNode, error) {
	var svg SVGXMLNode
	err := xml.Unmarshal(data, &svg)
	return &svg, err
}

// Node builds the XML tree of the document.
func (d *Document) Node() *SVGXMLNode {
	group := &SVGXMLNode{
		XMLName:     xml.Name{Local: "g"},
		Stroke:      "black",
		StrokeWidth: "1",
	}
	if d.FlipY {
		group.Transform = fmt.Sprintf("matrix(1 0 0 -1 0 %d)", d.Height)
	}
	for _, l := range d.Lines {
		group.Children = append(group.Children, &SVGXMLNode{
			XMLName: xml.Name{Local: "line"},
			X1:      strconv.Itoa(l.X1),
			Y1:      strconv.Itoa(l.Y1),
			X2:      strconv.Itoa(l.X2),
			Y2:      strconv.Itoa(l.Y2),
			Styles:  fmt.Sprintf("stroke:rgb(%d,%d,%d);stroke-width:1", l.Gray, l.Gray, l.Gray),
		})
	}
	return &SVGXMLNode{
		XMLName:  xml.Name{Local: "svg"},
		Xmlns:    svgNamespace,
		Width:    strconv.Itoa(d.Width) + "px",
		Height:   strconv.Itoa(d.Height) + "px",
		ViewBox:  fmt.Sprintf("0 0 %d %d", d.Width, d.Height),
		Version:  "1.1",
		Children: []*SVGXMLNode{group},
	}
}

func (n *SVGXMLNode) Marshal() ([]byte, error) {
	return xml.MarshalIndent(n, "", "  ")
}

// Encode writes the document as a standalone SVG file.
func (d *Document) Encode(w io.Writer) error {
	data, err := d.Node().Marshal()
	if err != nil {
		return fmt.Errorf("svg marshal: %w", err)
	}
	for _, chunk := range [][]byte{[]byte(header), []byte(doctype), data, []byte("\n")} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("svg write: %w", err)
		}
	}
	return nil
}
