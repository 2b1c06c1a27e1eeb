// Package symbol defines the decoded-symbol value types shared between
// decoder backends and the multi-symbol locator.
package symbol

import "time"

// Format represents a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatQR
	FormatDataMatrix
	FormatAztec
	FormatPDF417
	FormatCode128
	FormatCode39
	FormatEAN8
	FormatEAN13
	FormatUPCA
	FormatUPCE
	FormatITF
	FormatCodabar
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case FormatQR:
		return "qr"
	case FormatDataMatrix:
		return "datamatrix"
	case FormatAztec:
		return "aztec"
	case FormatPDF417:
		return "pdf417"
	case FormatCode128:
		return "code128"
	case FormatCode39:
		return "code39"
	case FormatEAN8:
		return "ean8"
	case FormatEAN13:
		return "ean13"
	case FormatUPCA:
		return "upca"
	case FormatUPCE:
		return "upce"
	case FormatITF:
		return "itf"
	case FormatCodabar:
		return "codabar"
	default:
		return "unknown"
	}
}

// ParseFormat maps a conventional format name (as produced by String) back
// to its Format. Unrecognized names report false.
func ParseFormat(name string) (Format, bool) {
	for f := FormatQR; f <= FormatCodabar; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return FormatUnknown, false
}

// Point is a localization point in the coordinate space of the view that
// produced it, marking a structural landmark of a decoded symbol (finder
// pattern center, guard bar, corner). A nil *Point in a localization
// sequence means the landmark could not be determined; that absence must
// survive every transformation.
type Point struct {
	X float64
	Y float64
}

// MetadataType keys optional metadata attached to a decoded symbol.
type MetadataType int

const (
	MetadataOther MetadataType = iota
	MetadataOrientation
	MetadataErrorCorrectionLevel
	MetadataByteSegments
	MetadataIssueNumber
	MetadataSuggestedPrice
	MetadataPossibleCountry
	MetadataUPCEANExtension
	MetadataSymbologyIdentifier
)

// Result is one decoded symbol. It is treated as immutable once produced;
// derive variants with WithPoints instead of mutating fields.
type Result struct {
	// Text is the decoded payload.
	Text string

	// Raw holds the raw payload bytes, if the decoder exposes them.
	Raw []byte

	// NumBits is the number of valid bits in Raw.
	NumBits int

	// Format identifies the symbology.
	Format Format

	// Points is the localization sequence; entries may be nil.
	Points []*Point

	// Metadata carries optional decoder annotations.
	Metadata map[MetadataType]any

	// Timestamp records when the symbol was decoded.
	Timestamp time.Time
}

// NewResult builds a Result with the current time as its timestamp.
func NewResult(text string, raw []byte, numBits int, format Format, points []*Point) *Result {
	return &Result{
		Text:      text,
		Raw:       raw,
		NumBits:   numBits,
		Format:    format,
		Points:    points,
		Timestamp: time.Now(),
	}
}

// WithPoints derives a copy of r whose localization sequence is pts. All
// other fields, including the metadata entries, are carried over unchanged;
// the metadata map itself is copied so neither result aliases the other.
func (r *Result) WithPoints(pts []*Point) *Result {
	out := &Result{
		Text:      r.Text,
		Raw:       r.Raw,
		NumBits:   r.NumBits,
		Format:    r.Format,
		Points:    pts,
		Timestamp: r.Timestamp,
	}
	if r.Metadata != nil {
		out.Metadata = make(map[MetadataType]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
