package png

import "encoding/binary"

type ihdrData struct {
	width, height     uint32
	bitDepth          uint8
	colorType         uint8
	compressionMethod uint8
	filterMethod      uint8
	interlaceMethod   uint8
}

func parseIHDR(data []byte) (ihdrData, error) {
	var h ihdrData
	if len(data) != 13 {
		return h, newErrf(InvalidIHDR, "IHDR payload must be 13 bytes, got %d", len(data))
	}
	h.width = binary.BigEndian.Uint32(data[0:4])
	h.height = binary.BigEndian.Uint32(data[4:8])
	h.bitDepth = data[8]
	h.colorType = data[9]
	h.compressionMethod = data[10]
	h.filterMethod = data[11]
	h.interlaceMethod = data[12]

	if h.width == 0 || h.height == 0 || h.width > 1<<31-1 || h.height > 1<<31-1 {
		return h, newErr(InvalidIHDR, "width/height must be in [1, 2^31-1]")
	}
	if !validColorDepth(ColorType(h.colorType), h.bitDepth) {
		return h, newErrf(InvalidIHDR, "bit depth %d invalid for colour type %d", h.bitDepth, h.colorType)
	}
	if h.compressionMethod != 0 {
		return h, newErr(InvalidIHDR, "unsupported compression method")
	}
	if h.filterMethod != 0 {
		return h, newErr(InvalidIHDR, "unsupported filter method")
	}
	if h.interlaceMethod != 0 && h.interlaceMethod != 1 {
		return h, newErr(UnsupportedInterlace, "interlace method must be 0 or 1")
	}
	return h, nil
}

func encodeIHDR(img *Image) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], uint32(img.Width))
	binary.BigEndian.PutUint32(data[4:8], uint32(img.Height))
	data[8] = img.BitDepth
	data[9] = uint8(img.ColorType)
	data[10] = 0
	data[11] = 0
	data[12] = uint8(img.Interlace)
	return data
}
