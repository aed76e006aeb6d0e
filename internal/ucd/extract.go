package ucd

import (
	"strings"

	"github.com/pkg/errors"
)

// ExtractValues folds the document into a ValueArray, implementing the
// cluster-break mapping, the ExtPict/InCB overlays, the East Asian width
// mapping, the Mark/Cf zero-width override, and the two post-pass overrides
// (box-drawing/block elements forced Narrow, U+FE0F forced Extend+Wide).
func (d *Document) ExtractValues() (ValueArray, error) {
	values := NewValueArray()

	for _, g := range d.Repertoire.Groups {
		for _, char := range g.Entries {
			first, last := char.Range()

			generalCategory := coalesce(char.GeneralCategory, g.GeneralCategory)
			graphemeClusterBreak := coalesce(char.GraphemeClusterBreak, g.GraphemeClusterBreak)
			indicConjunctBreak := coalesce(char.IndicConjunctBreak, g.IndicConjunctBreak)
			extendedPictographic := coalesce(char.ExtendedPictographic, g.ExtendedPictographic)
			eastAsian := coalesce(char.EastAsian, g.EastAsian)

			cb, err := mapClusterBreak(graphemeClusterBreak, first, last)
			if err != nil {
				return nil, err
			}

			cb, err = overlayExtendedPictographic(cb, extendedPictographic, graphemeClusterBreak, first, last)
			if err != nil {
				return nil, err
			}

			cb, err = overlayIndicConjunctBreak(cb, indicConjunctBreak, graphemeClusterBreak, first, last)
			if err != nil {
				return nil, err
			}

			width, err := mapEastAsianWidth(eastAsian, first, last)
			if err != nil {
				return nil, err
			}

			// Mc/Me/Mn (any "M*" subtype) and Cf (format control) are rendered
			// as zero width by terminals, whatever their "ea" value.
			if strings.HasPrefix(generalCategory, "M") || generalCategory == "Cf" {
				width = WidthZero
			}

			fillRange(values[first:last+1], NewPackedValue(cb, width))
		}
	}

	// Box-drawing and block elements are Ambiguous per UCD, but terminals
	// treat them as Narrow regardless, so they align to a single cell.
	fillRange(values[0x2500:0x259F+1], NewPackedValue(Other, WidthNarrow))
	// U+FE0F (VS-16) qualifies the preceding emoji to a wide glyph.
	values[0xFE0F] = NewPackedValue(Extend, WidthWide)

	return values, nil
}

func mapClusterBreak(gcb string, first, last int) (ClusterBreak, error) {
	switch gcb {
	case "XX":
		return Other, nil
	case "CR", "LF", "CN":
		return Control, nil
	case "EX", "SM":
		return Extend, nil
	case "PP":
		return Prepend, nil
	case "ZWJ":
		return ZWJ, nil
	case "RI":
		return RI, nil
	case "L":
		return HangulL, nil
	case "V":
		return HangulV, nil
	case "T":
		return HangulT, nil
	case "LV":
		return HangulLV, nil
	case "LVT":
		return HangulLVT, nil
	default:
		return 0, dataErr("GCB", gcb, first, last)
	}
}

func overlayExtendedPictographic(cb ClusterBreak, extPict, gcb string, first, last int) (ClusterBreak, error) {
	if extPict != "Y" {
		return cb, nil
	}
	if cb != Other {
		return 0, errors.WithStack(&DataError{
			First: first, Last: last,
			Attribute: "ExtPict=Y with GCB", Value: gcb,
		})
	}
	return ExtPic, nil
}

func overlayIndicConjunctBreak(cb ClusterBreak, incb, gcb string, first, last int) (ClusterBreak, error) {
	switch incb {
	case "", "None", "Extend":
		return cb, nil
	case "Linker":
		if cb != Extend {
			return 0, errors.WithStack(&DataError{
				First: first, Last: last,
				Attribute: "InCB=Linker with GCB", Value: gcb,
			})
		}
		return InCBLinker, nil
	case "Consonant":
		if cb != Other {
			return 0, errors.WithStack(&DataError{
				First: first, Last: last,
				Attribute: "InCB=Consonant with GCB", Value: gcb,
			})
		}
		return InCBConsonant, nil
	default:
		return 0, dataErr("InCB", incb, first, last)
	}
}

func mapEastAsianWidth(ea string, first, last int) (CharacterWidth, error) {
	switch ea {
	case "N", "Na", "H":
		return WidthNarrow, nil
	case "F", "W":
		return WidthWide, nil
	case "A":
		return WidthAmbiguous, nil
	default:
		return 0, dataErr("ea", ea, first, last)
	}
}
