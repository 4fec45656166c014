package vobject

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteComponentSimple(t *testing.T) {
	c := NewComponent("VCARD")
	c.AddProp("FN", NewProperty("Forrest Gump"))

	assert.Equal(t, "BEGIN:VCARD\r\nFN:Forrest Gump\r\nEND:VCARD\r\n", WriteComponent(c))
}

func TestWriteComponentProperty(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want string
	}{
		{
			name: "escaped value is not escaped again",
			prop: NewProperty("a;b,c"),
			want: "X:a\\;b\\,c\r\n",
		},
		{
			name: "group and sorted params",
			prop: Property{
				Group:    "item1",
				Params:   map[string]string{"TYPE": "INTERNET", "PREF": ""},
				RawValue: "foo@example.com",
			},
			want: "item1.X;PREF=;TYPE=INTERNET:foo@example.com\r\n",
		},
		{
			name: "param with colon is quoted",
			prop: Property{
				Params:   map[string]string{"ALTREP": "cid:part1@example.org"},
				RawValue: "text",
			},
			want: "X;ALTREP=\"cid:part1@example.org\":text\r\n",
		},
		{
			name: "double quotes dropped",
			prop: Property{
				Params:   map[string]string{"X": `"a"b;c"`},
				RawValue: "v",
			},
			want: "X;X=\"ab;c\":v\r\n",
		},
		{
			name: "comma list kept as is",
			prop: Property{
				Params:   map[string]string{"TYPE": "work,voice"},
				RawValue: "+1 555 0100",
			},
			want: "X;TYPE=work,voice:+1 555 0100\r\n",
		},
		{
			name: "long value folded",
			prop: Property{RawValue: strings.Repeat("a", 100)},
			want: "X:" + strings.Repeat("a", 75) + "\r\n " + strings.Repeat("a", 25) + "\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComponent("A")
			c.AddProp("X", tt.prop)
			assert.Equal(t, "BEGIN:A\r\n"+tt.want+"END:A\r\n", WriteComponent(c))
		})
	}
}

func TestWriteComponentQuotedParamRoundTrip(t *testing.T) {
	c := NewComponent("A")
	c.AddProp("N", Property{Params: map[string]string{"X": `"a"b;c"`}, RawValue: "v"})

	parsed, err := ParseComponent(WriteComponent(c))
	require.NoError(t, err)
	n := parsed.SingleProp("N")
	require.NotNil(t, n)
	assert.Equal(t, "ab;c", n.Params["X"])
	assert.Equal(t, "v", n.RawValue)
}

func TestWriteComponentNested(t *testing.T) {
	cal := NewComponent("VCALENDAR")
	cal.AddProp("VERSION", NewProperty("2.0"))
	event := NewComponent("VEVENT")
	event.AddProp("UID", NewProperty("1"))
	alarm := NewComponent("VALARM")
	event.Subcomponents = append(event.Subcomponents, *alarm)
	cal.Subcomponents = append(cal.Subcomponents, *event, *NewComponent("VTODO"))

	want := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:1\r\n" +
		"BEGIN:VALARM\r\n" +
		"END:VALARM\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VTODO\r\n" +
		"END:VTODO\r\n" +
		"END:VCALENDAR\r\n"
	assert.Equal(t, want, WriteComponent(cal))
}

func TestWriteComponentSkipsEmptyBuckets(t *testing.T) {
	c := NewComponent("A")
	c.AllPropsMut("TEL")
	assert.Equal(t, "BEGIN:A\r\nEND:A\r\n", WriteComponent(c))
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		"BEGIN:VCARD\r\nFN:Forrest Gump\r\nEND:VCARD\r\n",
		"BEGIN:A\r\nBEGIN:B\r\nEND:B\r\nEND:A\r\n",
		"BEGIN:VCARD\r\n" +
			"VERSION:4.0\r\n" +
			"item1.EMAIL;TYPE=INTERNET;PREF:foo@example.com\r\n" +
			"EMAIL:bar@example.com\r\n" +
			"NOTE:line one\\nline two\\; with\\, separators and a rather long tail that will need folding\r\n" +
			"END:VCARD\r\n",
		"BEGIN:VCALENDAR\n" +
			"PRODID:-//Example//EN\n" +
			"BEGIN:VEVENT\n" +
			"ATTENDEE;CN=\"Doe, John\";DELEGATED-FROM=\"mailto:x@example.com\":mailto:john@example.com\n" +
			"SUMMARY:Lunch\n" +
			"END:VEVENT\n" +
			"BEGIN:VTODO\n" +
			"SUMMARY:Call\n" +
			" back\n" +
			"END:VTODO\n" +
			"END:VCALENDAR\n",
	}

	for _, doc := range docs {
		first, err := ParseComponent(doc)
		require.NoError(t, err)

		second, err := ParseComponent(WriteComponent(first))
		require.NoError(t, err)

		assertSameTree(t, first, second)
	}
}

func assertSameTree(t *testing.T, want, got *Component) {
	t.Helper()

	assert.Equal(t, want.Name, got.Name)
	assert.ElementsMatch(t, want.PropNames(), got.PropNames())
	for _, name := range want.PropNames() {
		wantProps, gotProps := want.AllProps(name), got.AllProps(name)
		require.Len(t, gotProps, len(wantProps), "property %s", name)
		for i := range wantProps {
			assert.Equal(t, wantProps[i].Value(), gotProps[i].Value())
			assert.Equal(t, wantProps[i].Group, gotProps[i].Group)
			assert.Equal(t, wantProps[i].Params, gotProps[i].Params)
		}
	}

	require.Len(t, got.Subcomponents, len(want.Subcomponents))
	for i := range want.Subcomponents {
		assertSameTree(t, &want.Subcomponents[i], &got.Subcomponents[i])
	}
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestEncoder(t *testing.T) {
	c := NewComponent("VCARD")
	c.AddProp("FN", NewProperty("Jane"))

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(c))
	assert.Equal(t, WriteComponent(c), buf.String())

	err := NewEncoder(failingWriter{}).Encode(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, errWrite)
	assert.Contains(t, err.Error(), "VCARD")
}
