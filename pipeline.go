package png

// passGeom generalises "the whole image" and "one Adam7 pass" into the same
// shape, so the scanline loop in decode/encode only has to exist once.
type passGeom struct {
	width, height  int // pixel dimensions of this pass
	startX, startY int // placement of pass pixel (0,0) in the full raster
	dx, dy         int // pixel stride between consecutive pass pixels/rows
}

// passes returns the sequence of passes to walk for the given interlace
// method: one full-image pass for InterlaceNone, or the seven Adam7 passes
// (skipping any that are empty for this image size) for InterlaceAdam7.
func passes(width, height int, interlace Interlace) []passGeom {
	if interlace == InterlaceNone {
		return []passGeom{{width: width, height: height, dx: 1, dy: 1}}
	}
	var out []passGeom
	for _, p := range adam7Passes {
		w, h := p.dims(width, height)
		if w == 0 || h == 0 {
			continue
		}
		out = append(out, passGeom{width: w, height: h, startX: p.startX, startY: p.startY, dx: p.dx, dy: p.dy})
	}
	return out
}

// scatterRow writes one decoded pass row's samples into the full image
// pixel buffer pix (stride = full image width * samplesPerPixel(c)).
func scatterRow(pix []uint16, fullWidth int, spp int, p passGeom, passY int, rowSamples []uint16) {
	y := p.startY + passY*p.dy
	for x := 0; x < p.width; x++ {
		fx := p.startX + x*p.dx
		dstOff := (y*fullWidth + fx) * spp
		srcOff := x * spp
		copy(pix[dstOff:dstOff+spp], rowSamples[srcOff:srcOff+spp])
	}
}

// gatherRow is the inverse of scatterRow: it reads one pass row's samples
// out of the full image pixel buffer.
func gatherRow(pix []uint16, fullWidth int, spp int, p passGeom, passY int, dst []uint16) {
	y := p.startY + passY*p.dy
	for x := 0; x < p.width; x++ {
		fx := p.startX + x*p.dx
		srcOff := (y*fullWidth + fx) * spp
		dstOff := x * spp
		copy(dst[dstOff:dstOff+spp], pix[srcOff:srcOff+spp])
	}
}
