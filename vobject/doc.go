/*
Package vobject reads and writes the contentline format shared by iCalendar and
vCard: nested BEGIN/END blocks holding properties with optional groups,
parameters and escaped text values.

# Parsing

	card, err := vobject.ParseComponent("BEGIN:VCARD\r\nFN:Forrest Gump\r\nEND:VCARD\r\n")
	if err != nil {
		log.Fatal(err)
	}
	if fn := card.SingleProp("FN"); fn != nil {
		fmt.Println(fn.Value())
	}

Input is unfolded before it is parsed, and CRLF, LF and CR line endings are all
accepted. A document that does not match the grammar is rejected as a whole with
a *SyntaxError, which matches ErrSyntax under errors.Is.

# Values

Property.RawValue always holds the escaped form of a value, exactly as it
appeared on the wire. Use NewProperty to build a property from plain text and
Property.Value to read it back:

	tel := vobject.NewProperty("+1 555; ext. 2")
	tel.Params["TYPE"] = "work,voice"
	card.AddProp("TEL", tel)

Parameter values are opaque: comma separated lists are not split.

# Writing

WriteComponent emits CRLF terminated lines folded at FoldWidth characters.
Properties are grouped by name, in the order their names were first seen, and
parameters are written in sorted order.
*/
package vobject
