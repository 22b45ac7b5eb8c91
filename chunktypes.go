package png

// Chunk type names recognised by this codec. Unrecognised types fall
// through to the PreserveUnknownChunks policy.
const (
	typeIHDR = "IHDR"
	typePLTE = "PLTE"
	typeIDAT = "IDAT"
	typeIEND = "IEND"

	typeTRNS = "tRNS"
	typeGAMA = "gAMA"
	typeCHRM = "cHRM"
	typeSRGB = "sRGB"
	typeICCP = "iCCP"
	typeBKGD = "bKGD"
	typePHYS = "pHYs"
	typeSBIT = "sBIT"
	typeTIME = "tIME"
	typeTEXT = "tEXt"
	typeZTXT = "zTXt"
	typeITXT = "iTXt"
	typeHIST = "hIST"
)

// isPreIDATMetadata reports whether typ must precede the first IDAT (the
// exceptions tIME/tEXt/zTXt/iTXt may appear anywhere after IHDR).
func isPreIDATMetadata(typ string) bool {
	switch typ {
	case typeTRNS, typeGAMA, typeCHRM, typeSRGB, typeICCP, typeBKGD, typePHYS, typeSBIT, typeHIST:
		return true
	}
	return false
}
