package grid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/napolitain/rts-core/internal/models"
)

// MapMagic opens every map payload
const MapMagic int32 = 0x123456

// MaxMapSide bounds the width and height accepted by Decode
const MaxMapSide = 4096

// ErrBadMagic is returned when a payload does not start with MapMagic
var ErrBadMagic = errors.New("bad map magic")

type mapHeader struct {
	Magic     int32
	Width     int32
	Height    int32
	Reserved1 int32
	Reserved2 int32
}

type tileRecord struct {
	Content        uint8
	Level          uint8
	Variation      uint8
	RotationOwner  uint8
	ResourceValue  int32
	ResourceValue2 int32
}

// Encode writes g in the map payload format
func (g *Grid) Encode(w io.Writer) error {
	h := mapHeader{Magic: MapMagic, Width: int32(g.Width), Height: int32(g.Height)}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write map header: %w", err)
	}
	recs := make([]tileRecord, len(g.tiles))
	for i, t := range g.tiles {
		recs[i] = tileRecord{
			Content:        uint8(t.Content),
			Level:          t.Level,
			Variation:      t.Variation,
			RotationOwner:  t.Rotation&3 | t.Owner<<ownerBits,
			ResourceValue:  t.ResourceValue,
			ResourceValue2: t.ResourceValue2,
		}
	}
	if err := binary.Write(w, binary.LittleEndian, recs); err != nil {
		return fmt.Errorf("write map tiles: %w", err)
	}
	return nil
}

// Decode reads a grid in the map payload format
func Decode(r io.Reader) (*Grid, error) {
	var h mapHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read map header: %w", err)
	}
	if h.Magic != MapMagic {
		return nil, fmt.Errorf("magic %#x: %w", h.Magic, ErrBadMagic)
	}
	if h.Width <= 0 || h.Height <= 0 || h.Width > MaxMapSide || h.Height > MaxMapSide {
		return nil, fmt.Errorf("map size %dx%d out of range", h.Width, h.Height)
	}
	g, err := New(int(h.Width), int(h.Height))
	if err != nil {
		return nil, err
	}
	recs := make([]tileRecord, len(g.tiles))
	if err := binary.Read(r, binary.LittleEndian, recs); err != nil {
		return nil, fmt.Errorf("read map tiles: %w", err)
	}
	for i, rec := range recs {
		if rec.Level > MaxLayer {
			return nil, fmt.Errorf("tile %d: level %d above %d", i, rec.Level, MaxLayer)
		}
		if int(rec.Content) >= len(models.AllTileKinds()) {
			return nil, fmt.Errorf("tile %d: unknown content %d", i, rec.Content)
		}
		g.tiles[i] = Tile{
			Content:        models.TileKind(rec.Content),
			Level:          rec.Level,
			Variation:      rec.Variation,
			Rotation:       rec.RotationOwner & 3,
			Owner:          rec.RotationOwner >> ownerBits,
			ResourceValue:  rec.ResourceValue,
			ResourceValue2: rec.ResourceValue2,
		}
	}
	return g, nil
}

// MarshalBinary implements encoding.BinaryMarshaler
func (g *Grid) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (g *Grid) UnmarshalBinary(data []byte) error {
	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*g = *d
	return nil
}
