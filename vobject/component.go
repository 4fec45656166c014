package vobject

import "github.com/samber/mo"

// Property is a single contentline inside a component.
type Property struct {
	// Params maps parameter names to their values. Multi-valued parameters
	// are kept as one comma separated string.
	Params map[string]string

	// RawValue is the value in escaped form, exactly as it appears on the
	// wire after unfolding.
	RawValue string

	// Group is the optional group prefix, e.g. "item1" for
	// "item1.EMAIL:foo@example.com". Empty means no group.
	Group string
}

// NewProperty creates a property from an unescaped value.
func NewProperty(value string) Property {
	return Property{
		Params:   make(map[string]string),
		RawValue: Escape(value),
	}
}

// Value returns the unescaped value.
func (p Property) Value() string {
	return Unescape(p.RawValue)
}

// Component is a BEGIN/END block, such as VCARD or VEVENT. The zero value is
// an unnamed component with no properties.
//
// Copying a Component copies the handle to its property table, so the copy and
// the original see the same properties. Use Clone for an independent tree.
type Component struct {
	Name          string
	Subcomponents []Component

	props *propTable
}

// propTable holds one bucket per property name and the order buckets were
// created in. Both live behind one pointer so copies never disagree.
type propTable struct {
	buckets map[string]*[]Property
	order   []string
}

// NewComponent returns an empty component.
func NewComponent(name string) *Component {
	return &Component{
		Name:  name,
		props: newPropTable(),
	}
}

func newPropTable() *propTable {
	return &propTable{buckets: make(map[string]*[]Property)}
}

func (c *Component) table() *propTable {
	if c.props == nil {
		c.props = newPropTable()
	}
	return c.props
}

// SingleProp returns the property for key if there is exactly one. It returns
// nil both when the key is absent and when it holds several properties.
func (c *Component) SingleProp(key string) *Property {
	props := c.AllProps(key)
	if len(props) != 1 {
		return nil
	}
	return &props[0]
}

// LookupProp is SingleProp returning an option.
func (c *Component) LookupProp(key string) mo.Option[*Property] {
	if p := c.SingleProp(key); p != nil {
		return mo.Some(p)
	}
	return mo.None[*Property]()
}

// AllProps returns every property stored under key, or an empty slice.
func (c *Component) AllProps(key string) []Property {
	if c.props == nil {
		return nil
	}
	if bucket, ok := c.props.buckets[key]; ok {
		return *bucket
	}
	return nil
}

// AllPropsMut returns the property slice for key, inserting an empty one if
// the key has never been seen. After this call HasBucket reports true for key
// even if nothing is appended, so a present bucket does not mean a property
// was ever set.
func (c *Component) AllPropsMut(key string) *[]Property {
	t := c.table()
	bucket, ok := t.buckets[key]
	if !ok {
		bucket = &[]Property{}
		t.buckets[key] = bucket
		t.order = append(t.order, key)
	}
	return bucket
}

// AddProp appends p to the properties stored under key.
func (c *Component) AddProp(key string, p Property) {
	bucket := c.AllPropsMut(key)
	*bucket = append(*bucket, p)
}

// HasBucket reports whether a bucket exists for key, including an empty one
// created by AllPropsMut.
func (c *Component) HasBucket(key string) bool {
	if c.props == nil {
		return false
	}
	_, ok := c.props.buckets[key]
	return ok
}

// PropNames returns the names of all buckets in creation order.
func (c *Component) PropNames() []string {
	if c.props == nil {
		return []string{}
	}
	names := make([]string, len(c.props.order))
	copy(names, c.props.order)
	return names
}

// Clone returns a deep copy of c: properties, parameters and subcomponents
// are all duplicated.
func (c *Component) Clone() *Component {
	out := NewComponent(c.Name)
	for _, name := range c.PropNames() {
		bucket := out.AllPropsMut(name)
		for _, p := range c.AllProps(name) {
			*bucket = append(*bucket, p.clone())
		}
	}
	if c.Subcomponents != nil {
		out.Subcomponents = make([]Component, len(c.Subcomponents))
		for i := range c.Subcomponents {
			out.Subcomponents[i] = *c.Subcomponents[i].Clone()
		}
	}
	return out
}

func (p Property) clone() Property {
	params := make(map[string]string, len(p.Params))
	for k, v := range p.Params {
		params[k] = v
	}
	p.Params = params
	return p
}
