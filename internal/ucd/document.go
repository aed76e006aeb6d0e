package ucd

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// HexInt is a hexadecimal integer attribute, as used throughout the UCD XML
// schema for codepoints (no "0x" prefix).
type HexInt int

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (h *HexInt) UnmarshalXMLAttr(attr xml.Attr) error {
	if attr.Value == "" {
		*h = 0
		return nil
	}
	v, err := strconv.ParseUint(attr.Value, 16, 32)
	if err != nil {
		return errors.Wrapf(err, "ucd: invalid hex attribute %s=%q", attr.Name.Local, attr.Value)
	}
	*h = HexInt(v)
	return nil
}

// attrs holds the five inheritable UCD attributes recognized on both <group>
// and <char> elements.
type attrs struct {
	GeneralCategory      string `xml:"gc,attr"`
	GraphemeClusterBreak string `xml:"GCB,attr"`
	IndicConjunctBreak   string `xml:"InCB,attr"`
	ExtendedPictographic string `xml:"ExtPict,attr"`
	EastAsian            string `xml:"ea,attr"`
}

// charEntry is a single <char>, <reserved>, <surrogate>, or <noncharacter>
// element: either a single codepoint or an inclusive range, plus any of the
// five attributes it overrides from its enclosing group.
type charEntry struct {
	attrs
	Codepoint      HexInt `xml:"cp,attr"`
	FirstCodepoint HexInt `xml:"first-cp,attr"`
	LastCodepoint  HexInt `xml:"last-cp,attr"`
}

// Range returns the inclusive [first, last] codepoint range this entry
// covers, collapsing the single-codepoint form to a one-element range.
func (c charEntry) Range() (first, last int) {
	if c.Codepoint != 0 {
		return int(c.Codepoint), int(c.Codepoint)
	}
	return int(c.FirstCodepoint), int(c.LastCodepoint)
}

// group is a <group> element: shared attributes plus its child entries.
type group struct {
	attrs
	Entries []charEntry `xml:",any"`
}

// Document is the parsed form of a ucd.nounihan.grouped.xml file.
type Document struct {
	Description string  `xml:"description"`
	Repertoire  struct {
		Groups []group `xml:"group"`
	} `xml:"repertoire"`
}

// ParseDocument reads and unmarshals a UCD XML document from r.
func ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "ucd: failed to read XML")
	}
	doc := &Document{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "ucd: failed to parse XML")
	}
	return doc, nil
}

// DataError reports a malformed or unrecognized UCD attribute, naming the
// codepoint range it was found on. All Value Extractor failures are of this
// type so callers can print a single actionable diagnostic, per the
// fatal-at-build-time error model.
type DataError struct {
	First, Last int
	Attribute   string
	Value       string
}

func (e *DataError) Error() string {
	return "ucd: unrecognized " + e.Attribute + " " + strconv.Quote(e.Value) +
		" for U+" + hexPad(e.First) + " to U+" + hexPad(e.Last)
}

func hexPad(cp int) string {
	s := strconv.FormatInt(int64(cp), 16)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

func dataErr(attribute, value string, first, last int) error {
	return errors.WithStack(&DataError{First: first, Last: last, Attribute: attribute, Value: value})
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
