package graph

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"
)

type xmlGraph struct {
	XMLName xml.Name  `xml:"graph"`
	Header  []xmlInfo `xml:"header>info"`
	Nodes   []xmlNode `xml:"node"`
}

type xmlInfo struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlNode struct {
	UID        string         `xml:"uid,attr"`
	Type       string         `xml:"type,attr"`
	Attributes []xmlAttribute `xml:"attribute"`
	Edges      []xmlEdge      `xml:"edge"`
}

type xmlAttribute struct {
	Type     string         `xml:"type,attr"`
	Name     string         `xml:"name,attr"`
	Context  string         `xml:"context,attr"`
	Value    string         `xml:"value,attr"`
	Children []xmlAttribute `xml:"attribute"`
}

type xmlEdge struct {
	Type      string `xml:"type,attr"`
	Direction string `xml:"direction,attr"`
	To        string `xml:"to,attr"`
}

// Load reads the graph file at path from fs.
func Load(ctx context.Context, fs afero.Fs, path string) (*Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph %s: %w", path, err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", path, err)
	}
	return g, nil
}

// Decode parses an XML graph dump.
func Decode(r io.Reader) (*Graph, error) {
	var doc xmlGraph
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}

	g := New()
	for _, info := range doc.Header {
		g.SetHeaderInfo(info.Name, info.Value)
	}

	for _, xn := range doc.Nodes {
		if xn.UID == "" {
			return nil, fmt.Errorf("node of type %q has no uid", xn.Type)
		}
		n := &Node{UID: xn.UID, Type: xn.Type}
		for _, xa := range xn.Attributes {
			a, err := convertAttribute(xa)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", xn.UID, err)
			}
			n.Attributes = append(n.Attributes, a)
		}
		g.AddNode(n)
	}

	// Edges are resolved after every node exists since they may point forward.
	for _, xn := range doc.Nodes {
		for _, xe := range xn.Edges {
			if xe.Direction == "reverse" {
				from, to := g.FindNode(xn.UID), g.FindNode(xe.To)
				if to == nil {
					return nil, fmt.Errorf("edge %s from %s: target %s: %w", xe.Type, xn.UID, xe.To, ErrNodeNotFound)
				}
				from.addEdge(Edge{Type: xe.Type, Direction: Reverse, To: to})
				continue
			}
			if err := g.AddEdge(xn.UID, xe.To, xe.Type); err != nil {
				return nil, fmt.Errorf("edge %s from %s: target %s: %w", xe.Type, xn.UID, xe.To, err)
			}
		}
	}

	return g, nil
}

func convertAttribute(xa xmlAttribute) (Attribute, error) {
	a := Attribute{
		Type:    AttributeType(xa.Type),
		Name:    xa.Name,
		Context: xa.Context,
	}
	switch a.Type {
	case AttrInt:
		v, err := strconv.Atoi(xa.Value)
		if err != nil {
			return Attribute{}, fmt.Errorf("attribute %s: invalid int %q: %w", xa.Name, xa.Value, err)
		}
		a.Int = v
	case AttrFloat:
		v, err := strconv.ParseFloat(xa.Value, 64)
		if err != nil {
			return Attribute{}, fmt.Errorf("attribute %s: invalid float %q: %w", xa.Name, xa.Value, err)
		}
		a.Float = v
	case AttrString:
		a.Str = xa.Value
	case AttrComposite:
		for _, xc := range xa.Children {
			c, err := convertAttribute(xc)
			if err != nil {
				return Attribute{}, err
			}
			a.Children = append(a.Children, c)
		}
	default:
		return Attribute{}, fmt.Errorf("attribute %s: unknown type %q", xa.Name, xa.Type)
	}
	return a, nil
}
