package presenter

import (
	"bufio"
	"fmt"
	"os"
)

// WritePPM writes d as a binary PPM (P6) file at path, for the
// screenshot control operation: BGRA premultiplied pixels are converted
// to plain RGB, alpha dropped.
func WritePPM(path string, d Drawable) error {
	if len(d.Pixels) != d.Width*d.Height*4 {
		return fmt.Errorf("presenter: screenshot pixel buffer size mismatch")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("presenter: creating screenshot file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P6\n%d %d\n255\n", d.Width, d.Height)

	rgb := make([]byte, d.Width*3)
	for row := 0; row < d.Height; row++ {
		rowOff := row * d.Width * 4
		for col := 0; col < d.Width; col++ {
			px := d.Pixels[rowOff+col*4 : rowOff+col*4+4]
			b, g, r := px[0], px[1], px[2]
			rgb[col*3+0] = r
			rgb[col*3+1] = g
			rgb[col*3+2] = b
		}
		if _, err := w.Write(rgb); err != nil {
			return fmt.Errorf("presenter: writing screenshot row %d: %w", row, err)
		}
	}
	return w.Flush()
}
