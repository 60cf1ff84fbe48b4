package orgb

import "fmt"

// ModeDescription describes one lighting mode a device supports (static,
// breathing, rainbow, ...). Deserialize reads every fixed field
// unconditionally and does not itself validate Flags against the other
// field values; Flags only gates which fields a caller should pay
// attention to (spec §3).
type ModeDescription struct {
	Name      string
	Value     uint32
	Flags     ModeFlags
	SpeedMin  uint32
	SpeedMax  uint32
	ColorsMin uint32
	ColorsMax uint32
	Speed     uint32
	Direction Direction
	ColorMode ColorMode
	Colors    []Color
}

// CalcSize returns the exact wire size of m.
func (m ModeDescription) CalcSize() int {
	return stringSize(m.Name) +
		4 + 4 + 4 + 4 + 4 + 4 + 4 + 4 + // value, flags, speed_min/max, colors_min/max, speed, direction
		4 + // color_mode
		2 + len(m.Colors)*4 // count prefix + colors
}

// Serialize writes m to w in wire order.
func (m ModeDescription) Serialize(w *Writer) {
	w.PutString(m.Name)
	w.PutU32(m.Value)
	w.PutU32(uint32(m.Flags))
	w.PutU32(m.SpeedMin)
	w.PutU32(m.SpeedMax)
	w.PutU32(m.ColorsMin)
	w.PutU32(m.ColorsMax)
	w.PutU32(m.Speed)
	w.PutU32(uint32(m.Direction))
	w.PutU32(uint32(m.ColorMode))
	w.PutU16(uint16(len(m.Colors)))
	for _, c := range m.Colors {
		w.PutColor(c)
	}
}

// Deserialize reads a ModeDescription from r.
func (m *ModeDescription) Deserialize(r *Reader) error {
	name, err := r.GetString()
	if err != nil {
		return err
	}
	value, err := r.GetU32()
	if err != nil {
		return err
	}
	flags, err := r.GetU32()
	if err != nil {
		return err
	}
	speedMin, err := r.GetU32()
	if err != nil {
		return err
	}
	speedMax, err := r.GetU32()
	if err != nil {
		return err
	}
	colorsMin, err := r.GetU32()
	if err != nil {
		return err
	}
	colorsMax, err := r.GetU32()
	if err != nil {
		return err
	}
	speed, err := r.GetU32()
	if err != nil {
		return err
	}
	direction, err := r.GetU32()
	if err != nil {
		return err
	}
	colorMode, err := r.GetU32()
	if err != nil {
		return err
	}
	count, err := r.GetU16()
	if err != nil {
		return err
	}
	var colors []Color
	if count > 0 {
		colors = make([]Color, count)
	}
	for i := range colors {
		colors[i], err = r.GetColor()
		if err != nil {
			return err
		}
	}
	*m = ModeDescription{
		Name:      name,
		Value:     value,
		Flags:     ModeFlags(flags),
		SpeedMin:  speedMin,
		SpeedMax:  speedMax,
		ColorsMin: colorsMin,
		ColorsMax: colorsMax,
		Speed:     speed,
		Direction: Direction(direction),
		ColorMode: ColorMode(colorMode),
		Colors:    colors,
	}
	return nil
}

// ZoneDescription describes one physically-grouped region of LEDs on a
// device. The matrix block (Height/Width/Matrix) is present on the wire
// only when MatrixLength > 0.
type ZoneDescription struct {
	Name      string
	Type      ZoneType
	LedsMin   uint32
	LedsMax   uint32
	LedsCount uint32

	// Matrix fields are valid only when MatrixLength > 0.
	MatrixLength uint16
	MatrixHeight uint32
	MatrixWidth  uint32
	Matrix       []uint32 // Height*Width cells, row-major
}

// CalcSize returns the exact wire size of z.
func (z ZoneDescription) CalcSize() int {
	size := stringSize(z.Name) + 4 + 4 + 4 + 4 + 2 // name, type, leds_min/max/count, matrix_length
	if z.MatrixLength > 0 {
		size += 4 + 4 + len(z.Matrix)*4
	}
	return size
}

// Serialize writes z to w in wire order, including the matrix block iff
// MatrixLength > 0.
func (z ZoneDescription) Serialize(w *Writer) {
	w.PutString(z.Name)
	w.PutU32(uint32(z.Type))
	w.PutU32(z.LedsMin)
	w.PutU32(z.LedsMax)
	w.PutU32(z.LedsCount)
	w.PutU16(z.MatrixLength)
	if z.MatrixLength > 0 {
		w.PutU32(z.MatrixHeight)
		w.PutU32(z.MatrixWidth)
		for _, v := range z.Matrix {
			w.PutU32(v)
		}
	}
}

// Deserialize reads a ZoneDescription from r. It fails ErrMalformed if
// MatrixLength is nonzero but doesn't equal 8 + 4*height*width.
func (z *ZoneDescription) Deserialize(r *Reader) error {
	name, err := r.GetString()
	if err != nil {
		return err
	}
	zoneType, err := r.GetU32()
	if err != nil {
		return err
	}
	ledsMin, err := r.GetU32()
	if err != nil {
		return err
	}
	ledsMax, err := r.GetU32()
	if err != nil {
		return err
	}
	ledsCount, err := r.GetU32()
	if err != nil {
		return err
	}
	matrixLength, err := r.GetU16()
	if err != nil {
		return err
	}

	out := ZoneDescription{
		Name:         name,
		Type:         ZoneType(zoneType),
		LedsMin:      ledsMin,
		LedsMax:      ledsMax,
		LedsCount:    ledsCount,
		MatrixLength: matrixLength,
	}
	if matrixLength > 0 {
		height, err := r.GetU32()
		if err != nil {
			return err
		}
		width, err := r.GetU32()
		if err != nil {
			return err
		}
		want := 8 + 4*height*width
		if uint32(matrixLength) != want {
			return fmt.Errorf("%w: zone %q matrix_length %d != expected %d", ErrMalformed, name, matrixLength, want)
		}
		matrix := make([]uint32, height*width)
		for i := range matrix {
			matrix[i], err = r.GetU32()
			if err != nil {
				return err
			}
		}
		out.MatrixHeight = height
		out.MatrixWidth = width
		out.Matrix = matrix
	}
	*z = out
	return nil
}

// LEDDescription names a single addressable LED within a zone.
type LEDDescription struct {
	Name  string
	Value uint32
}

// CalcSize returns the exact wire size of l.
func (l LEDDescription) CalcSize() int {
	return stringSize(l.Name) + 4
}

// Serialize writes l to w in wire order.
func (l LEDDescription) Serialize(w *Writer) {
	w.PutString(l.Name)
	w.PutU32(l.Value)
}

// Deserialize reads an LEDDescription from r.
func (l *LEDDescription) Deserialize(r *Reader) error {
	name, err := r.GetString()
	if err != nil {
		return err
	}
	value, err := r.GetU32()
	if err != nil {
		return err
	}
	*l = LEDDescription{Name: name, Value: value}
	return nil
}

// DeviceDescription is the full static description of one RGB controller:
// its identity strings, its modes, zones, individual LEDs, and the current
// color of every LED.
//
// Invariants enforced by Deserialize: 0 <= ActiveMode < len(Modes), and
// len(Colors) == len(Leds). The caller-visible contract that zone LED
// ranges are contiguous and partition Leds is documented but not checked
// here, since the wire format gives no way to cross-validate it against a
// transmission error versus a legitimately unusual daemon-side layout.
type DeviceDescription struct {
	DeviceType  DeviceType
	Name        string
	Vendor      string
	Description string
	Version     string
	Serial      string
	Location    string
	ActiveMode  uint32
	Modes       []ModeDescription
	Zones       []ZoneDescription
	Leds        []LEDDescription
	Colors      []Color
}

// CalcSize returns the exact wire size of d.
func (d DeviceDescription) CalcSize() int {
	size := 4 + // device_type
		stringSize(d.Name) + stringSize(d.Vendor) + stringSize(d.Description) +
		stringSize(d.Version) + stringSize(d.Serial) + stringSize(d.Location) +
		4 + // active_mode
		2 // modes count
	for _, m := range d.Modes {
		size += m.CalcSize()
	}
	size += 2 // zones count
	for _, z := range d.Zones {
		size += z.CalcSize()
	}
	size += 2 // leds count
	for _, l := range d.Leds {
		size += l.CalcSize()
	}
	size += 2 + len(d.Colors)*4 // colors count + colors
	return size
}

// Serialize writes d to w in wire order.
func (d DeviceDescription) Serialize(w *Writer) {
	w.PutU32(uint32(d.DeviceType))
	w.PutString(d.Name)
	w.PutString(d.Vendor)
	w.PutString(d.Description)
	w.PutString(d.Version)
	w.PutString(d.Serial)
	w.PutString(d.Location)
	w.PutU32(d.ActiveMode)
	w.PutU16(uint16(len(d.Modes)))
	for _, m := range d.Modes {
		m.Serialize(w)
	}
	w.PutU16(uint16(len(d.Zones)))
	for _, z := range d.Zones {
		z.Serialize(w)
	}
	w.PutU16(uint16(len(d.Leds)))
	for _, l := range d.Leds {
		l.Serialize(w)
	}
	w.PutU16(uint16(len(d.Colors)))
	for _, c := range d.Colors {
		w.PutColor(c)
	}
}

// Deserialize reads a DeviceDescription from r, failing ErrMalformed if
// ActiveMode is out of range or the color/LED counts disagree.
func (d *DeviceDescription) Deserialize(r *Reader) error {
	deviceType, err := r.GetU32()
	if err != nil {
		return err
	}
	name, err := r.GetString()
	if err != nil {
		return err
	}
	vendor, err := r.GetString()
	if err != nil {
		return err
	}
	description, err := r.GetString()
	if err != nil {
		return err
	}
	version, err := r.GetString()
	if err != nil {
		return err
	}
	serial, err := r.GetString()
	if err != nil {
		return err
	}
	location, err := r.GetString()
	if err != nil {
		return err
	}
	activeMode, err := r.GetU32()
	if err != nil {
		return err
	}

	modeCount, err := r.GetU16()
	if err != nil {
		return err
	}
	modes := make([]ModeDescription, modeCount)
	for i := range modes {
		if err := modes[i].Deserialize(r); err != nil {
			return err
		}
	}

	zoneCount, err := r.GetU16()
	if err != nil {
		return err
	}
	zones := make([]ZoneDescription, zoneCount)
	for i := range zones {
		if err := zones[i].Deserialize(r); err != nil {
			return err
		}
	}

	ledCount, err := r.GetU16()
	if err != nil {
		return err
	}
	leds := make([]LEDDescription, ledCount)
	for i := range leds {
		if err := leds[i].Deserialize(r); err != nil {
			return err
		}
	}

	colorCount, err := r.GetU16()
	if err != nil {
		return err
	}
	colors := make([]Color, colorCount)
	for i := range colors {
		colors[i], err = r.GetColor()
		if err != nil {
			return err
		}
	}

	if activeMode >= uint32(len(modes)) {
		return fmt.Errorf("%w: active_mode %d out of range for %d modes", ErrMalformed, activeMode, len(modes))
	}
	if len(colors) != len(leds) {
		return fmt.Errorf("%w: %d colors but %d leds", ErrMalformed, len(colors), len(leds))
	}

	*d = DeviceDescription{
		DeviceType:  DeviceType(deviceType),
		Name:        name,
		Vendor:      vendor,
		Description: description,
		Version:     version,
		Serial:      serial,
		Location:    location,
		ActiveMode:  activeMode,
		Modes:       modes,
		Zones:       zones,
		Leds:        leds,
		Colors:      colors,
	}
	return nil
}
