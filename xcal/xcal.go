// Package xcal renders component trees as XML in the shape used by xCal
// (RFC 6321) and xCard (RFC 6351), and reads such documents back.
//
// Values are treated as text: every property value is written as a <text>
// element holding the unescaped value, and parameters likewise. Structured
// values such as ADR are not split into their parts, so an escaped separator
// and a plain one read back the same.
package xcal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/cyp0633/libvobject/vobject"
)

// XML namespaces of the two formats.
const (
	NamespaceICalendar = "urn:ietf:params:xml:ns:icalendar-2.0"
	NamespaceVCard     = "urn:ietf:params:xml:ns:vcard-4.0"
)

// Element names shared by both formats
const (
	TagProperties = "properties"
	TagComponents = "components"
	TagParameters = "parameters"
	TagGroup      = "group"
	TagText       = "text"
)

// ErrInvalidDocument is wrapped by every Unmarshal error caused by the shape of
// the input.
var ErrInvalidDocument = errors.New("xcal: invalid document")

// Options controls the document envelope.
type Options struct {
	Root      string // root element name
	Namespace string // default namespace declared on the root
	Indent    int    // spaces per level, 0 writes everything on one line
}

// DefaultOptions produces an xCal document
var DefaultOptions = Options{
	Root:      "icalendar",
	Namespace: NamespaceICalendar,
	Indent:    2,
}

// VCardOptions produces an xCard document
var VCardOptions = Options{
	Root:      "vcards",
	Namespace: NamespaceVCard,
	Indent:    2,
}

// Marshal renders c as an XML document.
func Marshal(c *vobject.Component, opts Options) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(opts.Root)
	if opts.Namespace != "" {
		root.CreateAttr("xmlns", opts.Namespace)
	}
	root.AddChild(componentElement(c))

	if opts.Indent > 0 {
		doc.Indent(opts.Indent)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write xml: %w", err)
	}
	return out, nil
}

func componentElement(c *vobject.Component) *etree.Element {
	elem := etree.NewElement(strings.ToLower(c.Name))

	if names := c.PropNames(); len(names) > 0 {
		props := elem.CreateElement(TagProperties)
		groups := make(map[string]*etree.Element)
		for _, name := range names {
			for _, p := range c.AllProps(name) {
				parent := props
				if p.Group != "" {
					g, ok := groups[p.Group]
					if !ok {
						g = props.CreateElement(TagGroup)
						g.CreateAttr("name", p.Group)
						groups[p.Group] = g
					}
					parent = g
				}
				parent.AddChild(propertyElement(name, p))
			}
		}
	}

	if len(c.Subcomponents) > 0 {
		comps := elem.CreateElement(TagComponents)
		for i := range c.Subcomponents {
			comps.AddChild(componentElement(&c.Subcomponents[i]))
		}
	}
	return elem
}

func propertyElement(name string, p vobject.Property) *etree.Element {
	elem := etree.NewElement(strings.ToLower(name))

	if len(p.Params) > 0 {
		params := elem.CreateElement(TagParameters)
		for _, k := range sortedKeys(p.Params) {
			params.CreateElement(strings.ToLower(k)).CreateElement(TagText).SetText(p.Params[k])
		}
	}
	elem.CreateElement(TagText).SetText(p.Value())
	return elem
}

// Unmarshal reads a document produced by Marshal, or any xCal/xCard document
// holding a single top-level component. Names are upper-cased.
func Unmarshal(data string, opts Options) (*vobject.Component, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(data); err != nil {
		return nil, fmt.Errorf("failed to read xml: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	if opts.Root != "" && root.Tag != opts.Root {
		return nil, fmt.Errorf("%w: root element %s, expected %s", ErrInvalidDocument, root.Tag, opts.Root)
	}

	children := root.ChildElements()
	if len(children) != 1 {
		return nil, fmt.Errorf("%w: expected one component, found %d", ErrInvalidDocument, len(children))
	}
	return readComponent(children[0])
}

func readComponent(elem *etree.Element) (*vobject.Component, error) {
	c := vobject.NewComponent(strings.ToUpper(elem.Tag))

	for _, child := range elem.ChildElements() {
		switch child.Tag {
		case TagProperties:
			for _, pe := range child.ChildElements() {
				if pe.Tag != TagGroup {
					readProperty(c, pe, "")
					continue
				}
				group := pe.SelectAttrValue("name", "")
				if group == "" {
					return nil, fmt.Errorf("%w: group without name in %s", ErrInvalidDocument, c.Name)
				}
				for _, ge := range pe.ChildElements() {
					readProperty(c, ge, group)
				}
			}
		case TagComponents:
			for _, ce := range child.ChildElements() {
				sub, err := readComponent(ce)
				if err != nil {
					return nil, err
				}
				c.Subcomponents = append(c.Subcomponents, *sub)
			}
		default:
			return nil, fmt.Errorf("%w: unexpected element %s in %s", ErrInvalidDocument, child.Tag, c.Name)
		}
	}
	return c, nil
}

func readProperty(c *vobject.Component, elem *etree.Element, group string) {
	var value string
	params := make(map[string]string)

	for _, child := range elem.ChildElements() {
		if child.Tag != TagParameters {
			value = child.Text()
			continue
		}
		for _, pe := range child.ChildElements() {
			params[strings.ToUpper(pe.Tag)] = valueText(pe)
		}
	}

	p := vobject.NewProperty(value)
	p.Params = params
	p.Group = group
	c.AddProp(strings.ToUpper(elem.Tag), p)
}

// valueText returns the text of the first value element, or the element's own
// text when it has none.
func valueText(elem *etree.Element) string {
	if children := elem.ChildElements(); len(children) > 0 {
		return children[0].Text()
	}
	return elem.Text()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
