package geo

import (
	"bytes"
	"encoding/binary"
	"image"
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"
)

// TIFF tags carrying the affine geo-referencing model.
const (
	tagModelPixelScale = 33550
	tagModelTiepoint   = 33922
	tagGeoKeyDirectory = 34735
)

// GeoTIFF keys identifying the coordinate reference system.
const (
	geoKeyGeographicType  = 2048
	geoKeyProjectedCSType = 3072
	geoKeyUserDefined     = 32767
)

// Raster is a decoded geo-tagged raster: pixel data plus the affine
// reference read from its tags.
type Raster struct {
	Width, Height int
	Image         image.Image
	Ref           GeoReference
}

// LoadGeoTIFF reads and parses a GeoTIFF file from disk.
func LoadGeoTIFF(path string) (*Raster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read geotiff")
	}
	return ParseGeoTIFF(b)
}

// ParseGeoTIFF decodes a GeoTIFF byte buffer into pixels and a geo
// reference.
//
// Missing geo tags never fail the parse: the tie point defaults to the
// origin (0,0), the pixel scale to (1,1), and the EPSG code to 0 (unknown),
// so plain TIFFs load as un-referenced rasters.
func ParseGeoTIFF(b []byte) (*Raster, error) {
	img, err := tiff.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "decode tiff pixels")
	}

	ref, err := ParseGeoTags(b)
	if err != nil {
		return nil, errors.Wrap(err, "parse geo tags")
	}

	bounds := img.Bounds()
	return &Raster{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Image:  img,
		Ref:    ref,
	}, nil
}

// ParseGeoTags scans the first IFD of a TIFF buffer for the ModelTiepoint,
// ModelPixelScale and GeoKeyDirectory tags, applying the documented defaults
// for whichever are absent.
func ParseGeoTags(b []byte) (GeoReference, error) {
	ref := GeoReference{PixelScale: GeoPoint{X: 1, Y: 1}}

	if len(b) < 8 {
		return ref, errors.New("truncated tiff header")
	}

	var order binary.ByteOrder
	switch {
	case b[0] == 'I' && b[1] == 'I':
		order = binary.LittleEndian
	case b[0] == 'M' && b[1] == 'M':
		order = binary.BigEndian
	default:
		return ref, errors.New("not a tiff: bad byte-order mark")
	}
	if order.Uint16(b[2:4]) != 42 {
		return ref, errors.New("not a tiff: bad magic")
	}

	ifdOffset := order.Uint32(b[4:8])
	if int(ifdOffset)+2 > len(b) {
		return ref, errors.New("ifd offset out of range")
	}

	count := int(order.Uint16(b[ifdOffset : ifdOffset+2]))
	entries := b[ifdOffset+2:]
	if len(entries) < count*12 {
		return ref, errors.New("truncated ifd")
	}

	var scale, tie []float64
	var geoKeys []uint16
	for i := 0; i < count; i++ {
		e := entries[i*12 : i*12+12]
		tag := order.Uint16(e[0:2])

		switch tag {
		case tagModelPixelScale:
			scale = readDoubles(b, e, order)
		case tagModelTiepoint:
			tie = readDoubles(b, e, order)
		case tagGeoKeyDirectory:
			geoKeys = readShorts(b, e, order)
		}
	}

	if len(scale) >= 2 {
		ref.PixelScale = GeoPoint{X: scale[0], Y: scale[1]}
	}
	if len(tie) >= 6 {
		// A tie point maps raster position (i,j) to geographic (x,y).
		// Normalize to pixel (0,0); most rasters carry i = j = 0 anyway.
		i, j := tie[0], tie[1]
		x, y := tie[3], tie[4]
		ref.TiePoint = GeoPoint{
			X: x - i*ref.PixelScale.X,
			Y: y + j*ref.PixelScale.Y,
		}
	}
	ref.EPSG = epsgFromGeoKeys(geoKeys)

	return ref, nil
}

// readDoubles extracts a DOUBLE-typed tag's values from its offset.
func readDoubles(b, entry []byte, order binary.ByteOrder) []float64 {
	const typeDouble = 12
	if order.Uint16(entry[2:4]) != typeDouble {
		return nil
	}
	n := int(order.Uint32(entry[4:8]))
	off := int(order.Uint32(entry[8:12]))
	if n <= 0 || off+n*8 > len(b) {
		return nil
	}
	vals := make([]float64, n)
	for i := range vals {
		bits := order.Uint64(b[off+i*8 : off+i*8+8])
		vals[i] = math.Float64frombits(bits)
	}
	return vals
}

// readShorts extracts a SHORT-typed tag's values. Arrays of more than two
// shorts are always stored at an offset.
func readShorts(b, entry []byte, order binary.ByteOrder) []uint16 {
	const typeShort = 3
	if order.Uint16(entry[2:4]) != typeShort {
		return nil
	}
	n := int(order.Uint32(entry[4:8]))
	if n <= 0 {
		return nil
	}
	var src []byte
	if n <= 2 {
		src = entry[8 : 8+n*2]
	} else {
		off := int(order.Uint32(entry[8:12]))
		if off+n*2 > len(b) {
			return nil
		}
		src = b[off : off+n*2]
	}
	vals := make([]uint16, n)
	for i := range vals {
		vals[i] = order.Uint16(src[i*2 : i*2+2])
	}
	return vals
}

// epsgFromGeoKeys walks a GeoKeyDirectory looking for a projected CRS key,
// falling back to a geographic one. Returns 0 when no usable key exists.
func epsgFromGeoKeys(keys []uint16) int {
	// Directory header is 4 shorts, then 4 shorts per key:
	// KeyID, TIFFTagLocation, Count, ValueOffset.
	if len(keys) < 4 {
		return 0
	}
	numKeys := int(keys[3])

	geographic := 0
	for k := 0; k < numKeys; k++ {
		base := 4 + k*4
		if base+4 > len(keys) {
			break
		}
		keyID := keys[base]
		location := keys[base+1]
		value := int(keys[base+3])

		// Only inline SHORT values identify a CRS code.
		if location != 0 || value == geoKeyUserDefined {
			continue
		}
		switch keyID {
		case geoKeyProjectedCSType:
			return value
		case geoKeyGeographicType:
			geographic = value
		}
	}
	return geographic
}
