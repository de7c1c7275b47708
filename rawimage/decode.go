package rawimage

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/weaming/rawdng-go/dng"
	"github.com/weaming/rawdng-go/logx"
	"github.com/weaming/rawdng-go/rawengine"
	"github.com/weaming/rawdng-go/rawerr"
	"github.com/weaming/rawdng-go/rawstream"
)

// fujiMakePrefix identifies sensors whose native pixel order is rotated 90°
// relative to their metadata.
const fujiMakePrefix = "FUJIFILM"

// cropInset is the border kept out of the default crop of mosaic images.
const cropInset = 8

// DecodeFile opens filename and decodes it.
func DecodeFile(filename string, engine rawengine.Engine, alloc dng.Allocator, opts ...Option) (*Image, error) {
	stream, err := dng.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	return Decode(stream, engine, alloc, opts...)
}

// Decode runs engine over stream twice, a geometry probe then a full
// unpack, and returns the populated image. The engine is recycled after each
// pass on every path. The stream stays open and owned by the caller.
func Decode(stream dng.ByteStream, engine rawengine.Engine, alloc dng.Allocator, opts ...Option) (*Image, error) {
	o := buildOptions(opts)
	if alloc == nil {
		alloc = dng.DefaultAllocator
	}

	bridge := rawstream.New(stream)
	session := rawengine.NewSession(engine)

	finalWidth, finalHeight, err := probe(session, bridge, o.logger)
	if err != nil {
		return nil, fmt.Errorf("probe pass: %w", err)
	}

	bridge.Seek(0, io.SeekStart)

	img, err := unpack(session, bridge, alloc, finalWidth, finalHeight, o)
	if err != nil {
		return nil, fmt.Errorf("decode pass: %w", err)
	}

	for _, w := range img.warnings {
		o.logger.Warn("%s", w.Error())
	}
	return img, nil
}

// probe reports the engine's output size after its own adjustments.
func probe(s *rawengine.Session, ds rawengine.DataStream, log *logx.Logger) (int, int, error) {
	defer s.Recycle()

	log.Step("probe", strconv.FormatInt(ds.Size(), 10)+" bytes")

	params, err := s.Params()
	if err != nil {
		log.Done("failed")
		return 0, 0, err
	}
	params.UserFlip = 0

	if err := s.Open(ds); err != nil {
		log.Done("failed")
		return 0, 0, err
	}
	if err := s.AdjustSizesInfoOnly(); err != nil {
		log.Done("failed")
		return 0, 0, err
	}

	sizes, err := s.Sizes()
	if err != nil {
		log.Done("failed")
		return 0, 0, err
	}

	log.Done(fmt.Sprintf("%dx%d", sizes.IWidth, sizes.IHeight))
	return sizes.IWidth, sizes.IHeight, nil
}

func unpack(s *rawengine.Session, ds rawengine.DataStream, alloc dng.Allocator, finalWidth, finalHeight int, o options) (*Image, error) {
	defer s.Recycle()
	log := o.logger

	log.Step("unpack")

	params, err := s.Params()
	if err != nil {
		log.Done("failed")
		return nil, err
	}
	params.OutputBPS = 16
	params.UserFlip = -1
	params.ShotSelect = 0

	if err := s.Open(ds); err != nil {
		log.Done("failed")
		return nil, err
	}
	if err := s.Unpack(); err != nil {
		log.Done("failed")
		return nil, err
	}

	sizes, err := s.Sizes()
	if err != nil {
		log.Done("failed")
		return nil, err
	}
	iparams, err := s.IParams()
	if err != nil {
		log.Done("failed")
		return nil, err
	}
	colors, err := s.ColorData()
	if err != nil {
		log.Done("failed")
		return nil, err
	}
	raw, err := s.RawData()
	if err != nil {
		log.Done("failed")
		return nil, err
	}
	log.Done(fmt.Sprintf("%s %s", iparams.Make, iparams.Model))

	if sizes.Width <= 0 || sizes.Height <= 0 {
		return nil, rawerr.WithMetadata(rawerr.CodeInvalidGeometry, "empty active area", map[string]string{
			"active": fmt.Sprintf("%dx%d", sizes.Width, sizes.Height),
		})
	}

	src, err := newSourcePlane(raw, sizes, iparams.Filters)
	if err != nil {
		return nil, err
	}

	geo := Geometry{
		ActiveWidth:  sizes.Width,
		ActiveHeight: sizes.Height,
		FinalWidth:   finalWidth,
		FinalHeight:  finalHeight,
		RawWidth:     max(sizes.RawWidth, sizes.Width+sizes.LeftMargin),
		RawHeight:    max(sizes.RawHeight, sizes.Height+sizes.TopMargin),
		TopMargin:    sizes.TopMargin,
		LeftMargin:   sizes.LeftMargin,
		EntireSensor: !o.cropToActive,
	}

	orientation := baseOrientation(sizes.Flip)

	fuji, err := isFujiRotated(s, iparams.Make)
	if err != nil {
		return nil, err
	}
	if fuji {
		geo.FujiRotate90 = true
		geo.ActiveWidth, geo.ActiveHeight = geo.ActiveHeight, geo.ActiveWidth
		geo.FinalWidth, geo.FinalHeight = geo.FinalHeight, geo.FinalWidth
		geo.RawWidth, geo.RawHeight = geo.RawHeight, geo.RawWidth
		geo.TopMargin, geo.LeftMargin = geo.LeftMargin, geo.TopMargin
		orientation = orientation.Add(dng.OrientationMirror90CCW)
	}

	bounds := image.Rect(0, 0, geo.ActiveWidth, geo.ActiveHeight)
	if geo.EntireSensor {
		bounds = image.Rect(0, 0, geo.RawWidth, geo.RawHeight)
	}

	planes := 1
	if iparams.Filters == 0 {
		planes = 3
	}

	log.Step("copy", fmt.Sprintf("%dx%d×%d", bounds.Dx(), bounds.Dy(), planes))
	img, err := New(bounds, planes, dng.PixelTypeShort, alloc)
	if err != nil {
		log.Done("failed")
		return nil, err
	}

	region := image.Rect(sizes.LeftMargin, sizes.TopMargin, sizes.LeftMargin+sizes.Width, sizes.TopMargin+sizes.Height)
	if geo.EntireSensor {
		region = image.Rect(0, 0, sizes.RawWidth, sizes.RawHeight)
	}
	if err := copyPlane(img, src, region, fuji); err != nil {
		log.Done("failed")
		return nil, err
	}
	log.Done(strings.ToLower(orientation.String()))

	img.geometry = geo
	img.orientation = orientation
	img.makeName = iparams.Make
	img.modelName = iparams.Model
	img.pattern = iparams.Filters
	img.channels = iparams.Colors
	img.planeColors = planeColorKeys(iparams.CDesc)

	img.setLayout()
	if err := img.calibrate(colors); err != nil {
		return nil, err
	}
	return img, nil
}

// baseOrientation maps the engine flip code.
func baseOrientation(flip int) dng.Orientation {
	switch flip {
	case 3:
		return dng.OrientationRotate180
	case 5:
		return dng.OrientationRotate90CCW
	case 6:
		return dng.OrientationRotate90CW
	default:
		return dng.OrientationNormal
	}
}

func isFujiRotated(s *rawengine.Session, makeName string) (bool, error) {
	if !strings.HasPrefix(makeName, fujiMakePrefix) {
		return false, nil
	}
	c01, err := s.Color(0, 1)
	if err != nil {
		return false, err
	}
	c10, err := s.Color(1, 0)
	if err != nil {
		return false, err
	}
	return c01 == 2 && c10 == 1, nil
}

// setLayout fills scale, default crop and active area from the geometry.
func (i *Image) setLayout() {
	g := i.geometry

	i.scaleH = dng.NewURational(uint32(g.FinalWidth), uint32(g.ActiveWidth))
	i.scaleV = dng.NewURational(uint32(g.FinalHeight), uint32(g.ActiveHeight))

	i.cropOriginH, i.cropSizeH = defaultCrop(i.pattern, g.ActiveWidth)
	i.cropOriginV, i.cropSizeV = defaultCrop(i.pattern, g.ActiveHeight)

	if g.EntireSensor {
		i.activeArea = image.Rect(g.LeftMargin, g.TopMargin, g.LeftMargin+g.ActiveWidth, g.TopMargin+g.ActiveHeight)
	} else {
		i.activeArea = i.bounds
	}
}

// defaultCrop insets mosaic images by cropInset on each edge. Axes too short
// to inset keep their full extent.
func defaultCrop(pattern uint32, active int) (origin, size dng.URational) {
	if pattern != 0 && active > 2*cropInset {
		return dng.NewURational(cropInset, 1), dng.NewURational(uint32(active-2*cropInset), 1)
	}
	return dng.NewURational(0, 1), dng.NewURational(uint32(active), 1)
}
