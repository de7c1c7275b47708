package rawimage

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/rawengine"
	"github.com/weaming/rawdng-go/rawerr"
)

// planeColorKeys maps up to four colour description letters to keys.
// Anything outside RGBCMY, including a missing letter, is Unknown.
func planeColorKeys(cdesc string) [4]dng.ColorKey {
	var keys [4]dng.ColorKey
	for i := range keys {
		var c byte
		if i < len(cdesc) {
			c = cdesc[i]
		}
		keys[i] = colorKeyFor(c)
	}
	return keys
}

func colorKeyFor(c byte) dng.ColorKey {
	switch c {
	case 'R':
		return dng.ColorKeyRed
	case 'G':
		return dng.ColorKeyGreen
	case 'B':
		return dng.ColorKeyBlue
	case 'C':
		return dng.ColorKeyCyan
	case 'M':
		return dng.ColorKeyMagenta
	case 'Y':
		return dng.ColorKeyYellow
	default:
		return dng.ColorKeyUnknown
	}
}

// calibrate fills neutral, levels and colour matrix. Degenerate white
// balance and matrices are replaced and recorded as warnings.
func (i *Image) calibrate(c rawengine.ColorData) error {
	if i.channels < 1 || i.channels > 4 {
		return rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "unsupported channel count", map[string]string{
			"channels": strconv.Itoa(i.channels),
		})
	}

	neutral := make([]float64, i.channels)
	for ch := range neutral {
		if c.CamMul[ch] == 0 {
			neutral[ch] = 1
			i.warn(rawerr.CodeDegenerateWhiteBalance, fmt.Sprintf("white balance multiplier %d is zero, using 1", ch))
			continue
		}
		neutral[ch] = 1 / float64(c.CamMul[ch])
	}
	i.cameraNeutral = mat.NewVecDense(i.channels, neutral)

	for slot := range i.blackLevel {
		ch := min(slot, i.channels-1)
		i.blackLevel[slot] = float64(c.Black + c.CBlack[ch])
		i.whiteLevel[slot] = float64(c.Maximum)
	}

	i.colorMatrix = nil
	if i.channels == 3 || i.channels == 4 {
		m := mat.NewDense(i.channels, 3, nil)
		for r := 0; r < i.channels; r++ {
			for col := 0; col < 3; col++ {
				m.Set(r, col, float64(c.CamXYZ[r][col]))
			}
		}
		if dng.IsZeroMatrix(m) {
			m = dng.IdentityLikeMatrix(i.channels)
			i.warn(rawerr.CodeDegenerateCalibration, "camera XYZ matrix is null, using identity")
		}
		i.colorMatrix = m
	}
	return nil
}

func (i *Image) warn(code rawerr.Code, message string) {
	i.warnings = append(i.warnings, rawerr.New(code, message))
}
