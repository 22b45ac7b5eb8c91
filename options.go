package png

// FilterStrategy selects how the encoder picks a per-scanline filter.
type FilterStrategy int

const (
	// FilterAdaptive chooses, per scanline, whichever of the five filters
	// minimises the sum of absolute differences (§4.9's recommended
	// heuristic).
	FilterAdaptive FilterStrategy = iota
	// FilterFixed applies FilterFixedType to every scanline.
	FilterFixed
)

// DecodeOptions configures Decode's validation policy. The zero value is
// not valid; use DefaultDecodeOptions.
type DecodeOptions struct {
	// MaxPixels caps width*height before any pixel buffer is allocated, to
	// defend against pathological headers. 0 means DefaultDecodeOptions's
	// cap.
	MaxPixels uint64
	// MaxChunkLength caps any single chunk's declared length. 0 means
	// DefaultDecodeOptions's cap (2^31-1, the format maximum).
	MaxChunkLength uint32
	// StrictAncillaryCRC, when true (the default), rejects ancillary
	// chunks with a bad CRC exactly as critical chunks are. When false,
	// an ancillary CRC failure is ignored and the chunk is skipped.
	StrictAncillaryCRC bool
	// PreserveUnknownChunks, when true, carries unrecognised ancillary
	// chunks through into Metadata.Unknown instead of discarding them.
	PreserveUnknownChunks bool
	// AllowTrailingData, when false (the default), fails with
	// TrailingData if bytes remain after IEND.
	AllowTrailingData bool
}

// DefaultDecodeOptions returns the strict-by-default policy §9 recommends.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxPixels:          1 << 28, // 268M pixels, e.g. a 16384x16384 image
		MaxChunkLength:      maxChunkLength,
		StrictAncillaryCRC:  true,
		PreserveUnknownChunks: false,
		AllowTrailingData:   false,
	}
}

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// CompressionLevel selects the DEFLATE strategy: NoCompression for
	// stored blocks only, or DefaultCompression for LZ77 + fixed Huffman.
	CompressionLevel CompressionLevel
	// FilterStrategy selects how per-scanline filters are chosen.
	FilterStrategy FilterStrategy
	// FilterFixedType is the filter byte used for every scanline when
	// FilterStrategy is FilterFixed.
	FilterFixedType uint8
	// Interlace selects the scanline transmission order to write.
	// InterlaceAdam7 writes Adam7 even when img.Interlace is InterlaceNone;
	// InterlaceNone (the default) writes img.Interlace.
	Interlace Interlace
	// IDATChunkSize caps the payload length of each IDAT chunk the
	// encoder emits. 0 means DefaultEncodeOptions's default (8192).
	IDATChunkSize int
}

// CompressionLevel mirrors internal/deflate.Level so callers of this
// package never need to import an internal package.
type CompressionLevel int

const (
	NoCompression      CompressionLevel = CompressionLevel(0)
	DefaultCompression CompressionLevel = CompressionLevel(1)
)

// DefaultEncodeOptions returns the default policy: adaptive filtering,
// fixed-Huffman LZ77 compression, the image's own interlace method, 8 KiB
// IDAT chunks.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		CompressionLevel: DefaultCompression,
		FilterStrategy:   FilterAdaptive,
		Interlace:        InterlaceNone,
		IDATChunkSize:    8192,
	}
}
