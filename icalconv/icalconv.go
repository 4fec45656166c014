// Package icalconv converts between vobject component trees and the
// github.com/emersion/go-ical representation, so documents parsed here can be
// handed to code built on go-ical and back.
package icalconv

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cyp0633/libvobject/vobject"
	"github.com/emersion/go-ical"
)

// ErrNotCalendar is returned when a calendar is required but the root
// component is something else.
var ErrNotCalendar = errors.New("icalconv: root component is not a VCALENDAR")

// ToICal converts c into a go-ical component. Both sides keep property values
// in escaped form, so values are copied unchanged. A property group is kept
// as part of the go-ical property name ("item1.EMAIL").
func ToICal(c *vobject.Component) *ical.Component {
	ic := ical.NewComponent(c.Name)

	for _, name := range c.PropNames() {
		for _, p := range c.AllProps(name) {
			propName := name
			if p.Group != "" {
				propName = p.Group + "." + name
			}
			prop := ical.Prop{
				Name:   propName,
				Params: make(ical.Params, len(p.Params)),
				Value:  p.RawValue,
			}
			for k, v := range p.Params {
				prop.Params[k] = []string{v}
			}
			ic.Props[propName] = append(ic.Props[propName], prop)
		}
	}

	for i := range c.Subcomponents {
		ic.Children = append(ic.Children, ToICal(&c.Subcomponents[i]))
	}
	return ic
}

// FromICal converts a go-ical component into a vobject component. Multi-valued
// parameters are joined with commas. Property names are visited in sorted
// order since go-ical does not record the original order.
//
// The go-ical decoder upper-cases property names, group prefix included, so a
// tree read through DecodeICS reports "item1.EMAIL" with Group "ITEM1".
func FromICal(ic *ical.Component) *vobject.Component {
	c := vobject.NewComponent(ic.Name)

	keys := make([]string, 0, len(ic.Props))
	for k := range ic.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, prop := range ic.Props[k] {
			name := prop.Name
			if name == "" {
				name = k
			}
			p := vobject.Property{
				Params:   make(map[string]string, len(prop.Params)),
				RawValue: prop.Value,
			}
			if group, rest, ok := strings.Cut(name, "."); ok {
				p.Group, name = group, rest
			}
			for pk, pv := range prop.Params {
				p.Params[pk] = strings.Join(pv, ",")
			}
			c.AddProp(name, p)
		}
	}

	for _, child := range ic.Children {
		c.Subcomponents = append(c.Subcomponents, *FromICal(child))
	}
	return c
}

// ToCalendar wraps the converted tree in an ical.Calendar. The root component
// must be a VCALENDAR.
func ToCalendar(c *vobject.Component) (*ical.Calendar, error) {
	if c.Name != ical.CompCalendar {
		return nil, fmt.Errorf("%w: got %s", ErrNotCalendar, c.Name)
	}
	return &ical.Calendar{Component: ToICal(c)}, nil
}

// EncodeICS serializes a VCALENDAR tree with the go-ical encoder, which also
// checks the calendar for required properties.
func EncodeICS(c *vobject.Component) (string, error) {
	cal, err := ToCalendar(c)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

// DecodeICS decodes a single calendar with the go-ical decoder and converts
// it into a vobject tree.
func DecodeICS(ics string) (*vobject.Component, error) {
	cal, err := ical.NewDecoder(strings.NewReader(ics)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return FromICal(cal.Component), nil
}
