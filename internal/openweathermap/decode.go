package openweathermap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

// ErrInvalidMode is returned for output modes other than json, xml and html.
var ErrInvalidMode = errors.New("invalid output mode")

// Mode is the provider output format.
type Mode string

const (
	ModeJSON Mode = "json"
	ModeXML  Mode = "xml"
	ModeHTML Mode = "html"
)

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeJSON, ModeXML, ModeHTML:
		return true
	default:
		return false
	}
}

// ParseMode normalizes s. An empty string yields an empty Mode, meaning "use the default".
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// XMLNode is a generic element tree for xml mode replies.
type XMLNode struct {
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*XMLNode        `json:"children,omitempty"`
}

// Find returns the first descendant (depth first) named name, or nil.
func (n *XMLNode) Find(name string) *XMLNode {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Decode extracts the typed payload for the response mode:
// *models.ForecastResponse for json, *XMLNode for xml, the raw body string for html.
func Decode(resp *Response) (any, error) {
	if resp == nil {
		return nil, errors.New("decode: nil response")
	}

	switch resp.Mode {
	case ModeJSON:
		var payload models.ForecastResponse
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return &payload, nil
	case ModeXML:
		return parseXML(resp.Body)
	case ModeHTML:
		return string(resp.Body), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, string(resp.Mode))
	}
}

func parseXML(body []byte) (*XMLNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var root *XMLNode
	var stack []*XMLNode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &XMLNode{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("decode xml: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if text := strings.TrimSpace(string(t)); text != "" {
				stack[len(stack)-1].Text += text
			}
		}
	}

	if root == nil {
		return nil, errors.New("decode xml: empty document")
	}
	return root, nil
}
