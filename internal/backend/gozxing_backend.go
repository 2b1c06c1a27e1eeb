//go:build backend_gozxing

package backend

import (
	"fmt"
	"time"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/multi"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// newDefaultReader returns the gozxing-backed reader when the build tag is enabled.
func newDefaultReader() (decode.Reader, error) { return &gozxingReader{}, nil }

type gozxingReader struct{}

func (r *gozxingReader) Decode(bm *bitmap.Bitmap, opts *decode.Options) (*symbol.Result, error) {
	if bm == nil || bm.Empty() {
		return nil, decode.ErrUnreadable
	}

	source := gozxing.NewLuminanceSourceFromImage(bm.Gray())
	bbm := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))

	reader := multi.NewMultiFormatReader()
	hints := mapHints(opts)

	var result *gozxing.Result
	var err error
	if len(hints) == 0 {
		result, err = reader.DecodeWithoutHints(bbm)
	} else {
		result, err = reader.Decode(bbm, hints)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", decode.ErrUnreadable, err)
	}
	return mapResult(result), nil
}

func mapHints(opts *decode.Options) map[gozxing.DecodeHintType]interface{} {
	if opts == nil {
		return nil
	}
	hints := make(map[gozxing.DecodeHintType]interface{})
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if opts.PureBarcode {
		hints[gozxing.DecodeHintType_PURE_BARCODE] = true
	}
	if opts.CharacterSet != "" {
		hints[gozxing.DecodeHintType_CHARACTER_SET] = opts.CharacterSet
	}
	// AlsoInverted has no gozxing hint; inverted search is unsupported here.
	if len(opts.PossibleFormats) > 0 {
		var formats []gozxing.BarcodeFormat
		for _, f := range opts.PossibleFormats {
			if bf, ok := mapFormatToZXing(f); ok {
				formats = append(formats, bf)
			}
		}
		if len(formats) > 0 {
			hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
		}
	}
	return hints
}

func mapResult(r *gozxing.Result) *symbol.Result {
	var points []*symbol.Point
	if pts := r.GetResultPoints(); pts != nil {
		points = make([]*symbol.Point, len(pts))
		for i, p := range pts {
			if p != nil {
				points[i] = &symbol.Point{X: float64(p.GetX()), Y: float64(p.GetY())}
			}
		}
	}
	out := &symbol.Result{
		Text:      r.GetText(),
		Raw:       r.GetRawBytes(),
		NumBits:   r.GetNumBits(),
		Format:    mapFormatFromZXing(r.GetBarcodeFormat()),
		Points:    points,
		Timestamp: time.UnixMilli(r.GetTimestamp()),
	}
	if md := r.GetResultMetadata(); len(md) > 0 {
		out.Metadata = make(map[symbol.MetadataType]any, len(md))
		for k, v := range md {
			out.Metadata[mapMetadataType(k)] = v
		}
	}
	return out
}

func mapMetadataType(t gozxing.ResultMetadataType) symbol.MetadataType {
	switch t {
	case gozxing.ResultMetadataType_ORIENTATION:
		return symbol.MetadataOrientation
	case gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL:
		return symbol.MetadataErrorCorrectionLevel
	case gozxing.ResultMetadataType_BYTE_SEGMENTS:
		return symbol.MetadataByteSegments
	case gozxing.ResultMetadataType_ISSUE_NUMBER:
		return symbol.MetadataIssueNumber
	case gozxing.ResultMetadataType_SUGGESTED_PRICE:
		return symbol.MetadataSuggestedPrice
	case gozxing.ResultMetadataType_POSSIBLE_COUNTRY:
		return symbol.MetadataPossibleCountry
	case gozxing.ResultMetadataType_UPC_EAN_EXTENSION:
		return symbol.MetadataUPCEANExtension
	default:
		return symbol.MetadataOther
	}
}

func mapFormatToZXing(f symbol.Format) (gozxing.BarcodeFormat, bool) {
	switch f {
	case symbol.FormatQR:
		return gozxing.BarcodeFormat_QR_CODE, true
	case symbol.FormatDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case symbol.FormatAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case symbol.FormatPDF417:
		return gozxing.BarcodeFormat_PDF_417, true
	case symbol.FormatCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case symbol.FormatCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case symbol.FormatEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case symbol.FormatEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case symbol.FormatUPCA:
		return gozxing.BarcodeFormat_UPC_A, true
	case symbol.FormatUPCE:
		return gozxing.BarcodeFormat_UPC_E, true
	case symbol.FormatITF:
		return gozxing.BarcodeFormat_ITF, true
	case symbol.FormatCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	default:
		return 0, false
	}
}

func mapFormatFromZXing(bf gozxing.BarcodeFormat) symbol.Format {
	switch bf {
	case gozxing.BarcodeFormat_QR_CODE:
		return symbol.FormatQR
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return symbol.FormatDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return symbol.FormatAztec
	case gozxing.BarcodeFormat_PDF_417:
		return symbol.FormatPDF417
	case gozxing.BarcodeFormat_CODE_128:
		return symbol.FormatCode128
	case gozxing.BarcodeFormat_CODE_39:
		return symbol.FormatCode39
	case gozxing.BarcodeFormat_EAN_8:
		return symbol.FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return symbol.FormatEAN13
	case gozxing.BarcodeFormat_UPC_A:
		return symbol.FormatUPCA
	case gozxing.BarcodeFormat_UPC_E:
		return symbol.FormatUPCE
	case gozxing.BarcodeFormat_ITF:
		return symbol.FormatITF
	case gozxing.BarcodeFormat_CODABAR:
		return symbol.FormatCodabar
	default:
		return symbol.FormatUnknown
	}
}
