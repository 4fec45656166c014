package vobject

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteComponent serializes c and its subcomponents, folding every property
// line. Values are written as stored; they are not escaped again.
func WriteComponent(c *Component) string {
	var b strings.Builder
	writeComponent(&b, c)
	return b.String()
}

func writeComponent(b *strings.Builder, c *Component) {
	b.WriteString(beginMarker)
	b.WriteString(c.Name)
	b.WriteString("\r\n")

	for _, name := range c.PropNames() {
		for _, prop := range c.AllProps(name) {
			writeProperty(b, name, prop)
		}
	}

	for i := range c.Subcomponents {
		writeComponent(b, &c.Subcomponents[i])
	}

	b.WriteString(endMarker)
	b.WriteString(c.Name)
	b.WriteString("\r\n")
}

func writeProperty(b *strings.Builder, name string, prop Property) {
	if prop.Group != "" {
		b.WriteString(prop.Group)
		b.WriteByte('.')
	}
	b.WriteString(name)

	keys := make([]string, 0, len(prop.Params))
	for k := range prop.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(';')
		b.WriteString(k)
		b.WriteByte('=')
		writeParamValue(b, prop.Params[k])
	}

	b.WriteByte(':')
	b.WriteString(Fold(prop.RawValue))
	b.WriteString("\r\n")
}

// writeParamValue quotes values that would otherwise end the parameter early.
// Double quotes cannot appear in a parameter value at all and are dropped.
func writeParamValue(b *strings.Builder, v string) {
	v = strings.ReplaceAll(v, `"`, "")
	if !strings.ContainsAny(v, ";:") {
		b.WriteString(v)
		return
	}
	b.WriteByte('"')
	b.WriteString(v)
	b.WriteByte('"')
}

// Encoder writes components to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the serialized form of c.
func (enc *Encoder) Encode(c *Component) error {
	if _, err := io.WriteString(enc.w, WriteComponent(c)); err != nil {
		return fmt.Errorf("failed to write component %s: %w", c.Name, err)
	}
	return nil
}
