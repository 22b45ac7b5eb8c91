package png

// adam7Pass describes one of the seven Adam7 interlacing passes: pixels at
// (startX+k*dx, startY+k*dy) for k=0,1,2,... belong to this pass.
type adam7Pass struct {
	startX, startY int
	dx, dy         int
}

var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// dims returns the pixel width and height of pass p for a full image
// of the given dimensions. Either may be 0, meaning the pass is empty.
func (p adam7Pass) dims(width, height int) (w, h int) {
	if width <= p.startX {
		w = 0
	} else {
		w = (width - p.startX + p.dx - 1) / p.dx
	}
	if height <= p.startY {
		h = 0
	} else {
		h = (height - p.startY + p.dy - 1) / p.dy
	}
	return w, h
}
