package orgb

import "fmt"

// flow distinguishes a request body from its reply when both share the
// same MessageType code (spec §3: "the same code is shared between a
// request and its reply; direction disambiguates them").
type flow uint8

const (
	flowRequest flow = iota
	flowReply
)

// Body is implemented by every request, reply, and notification payload.
// Giving each body type these four methods lets the client dispatch on
// header.message_type through a single lookup table (bodyFactories below)
// instead of a type switch sprinkled through the connection logic.
type Body interface {
	msgType() MessageType
	calcBodySize() uint32
	encodeBody(w *Writer)
	decodeBody(r *Reader) error
}

// --- RequestControllerCount / ReplyControllerCount (code 0) ---------------

// RequestControllerCount asks the daemon how many controllers it manages.
// It carries no body.
type RequestControllerCount struct{}

func (RequestControllerCount) msgType() MessageType    { return MsgRequestControllerCount }
func (RequestControllerCount) calcBodySize() uint32    { return 0 }
func (RequestControllerCount) encodeBody(*Writer)      {}
func (*RequestControllerCount) decodeBody(*Reader) error { return nil }

// ReplyControllerCount answers RequestControllerCount.
type ReplyControllerCount struct {
	Count uint32
}

func (ReplyControllerCount) msgType() MessageType { return MsgRequestControllerCount }
func (r ReplyControllerCount) calcBodySize() uint32 { return 4 }
func (r ReplyControllerCount) encodeBody(w *Writer) { w.PutU32(r.Count) }
func (r *ReplyControllerCount) decodeBody(rd *Reader) error {
	v, err := rd.GetU32()
	if err != nil {
		return err
	}
	r.Count = v
	return nil
}

// --- RequestControllerData / ReplyControllerData (code 1) ----------------

// RequestControllerData asks for the full description of one controller,
// selected by the frame's device_idx.
type RequestControllerData struct {
	ProtocolVersion uint32
}

func (RequestControllerData) msgType() MessageType    { return MsgRequestControllerData }
func (r RequestControllerData) calcBodySize() uint32  { return 4 }
func (r RequestControllerData) encodeBody(w *Writer)  { w.PutU32(r.ProtocolVersion) }
func (r *RequestControllerData) decodeBody(rd *Reader) error {
	v, err := rd.GetU32()
	if err != nil {
		return err
	}
	r.ProtocolVersion = v
	return nil
}

// ReplyControllerData answers RequestControllerData. DataSize duplicates
// the frame's body_size; the original protocol header carries no
// documented reason for the redundancy and this package preserves it
// rather than discard it.
type ReplyControllerData struct {
	DataSize uint32
	Device   DeviceDescription
}

func (ReplyControllerData) msgType() MessageType { return MsgRequestControllerData }
func (r ReplyControllerData) calcBodySize() uint32 {
	return 4 + uint32(r.Device.CalcSize())
}
func (r ReplyControllerData) encodeBody(w *Writer) {
	w.PutU32(r.calcBodySize())
	r.Device.Serialize(w)
}
func (r *ReplyControllerData) decodeBody(rd *Reader) error {
	bodySize := uint32(rd.Remaining())
	dataSize, err := rd.GetU32()
	if err != nil {
		return err
	}
	if dataSize != bodySize {
		return fmt.Errorf("%w: data_size %d does not match frame body_size %d", ErrMalformed, dataSize, bodySize)
	}
	var dev DeviceDescription
	if err := dev.Deserialize(rd); err != nil {
		return err
	}
	r.DataSize = dataSize
	r.Device = dev
	return nil
}

// --- RequestProtocolVersion / ReplyProtocolVersion (code 40) --------------

// RequestProtocolVersion is the first message sent on every connection,
// carrying the version this client implements.
type RequestProtocolVersion struct {
	ClientVersion uint32
}

func (RequestProtocolVersion) msgType() MessageType   { return MsgRequestProtocolVersion }
func (r RequestProtocolVersion) calcBodySize() uint32 { return 4 }
func (r RequestProtocolVersion) encodeBody(w *Writer) { w.PutU32(r.ClientVersion) }
func (r *RequestProtocolVersion) decodeBody(rd *Reader) error {
	v, err := rd.GetU32()
	if err != nil {
		return err
	}
	r.ClientVersion = v
	return nil
}

// ReplyProtocolVersion answers RequestProtocolVersion with the version the
// daemon implements; the client negotiates min(client, server).
type ReplyProtocolVersion struct {
	ServerVersion uint32
}

func (ReplyProtocolVersion) msgType() MessageType   { return MsgRequestProtocolVersion }
func (r ReplyProtocolVersion) calcBodySize() uint32 { return 4 }
func (r ReplyProtocolVersion) encodeBody(w *Writer) { w.PutU32(r.ServerVersion) }
func (r *ReplyProtocolVersion) decodeBody(rd *Reader) error {
	v, err := rd.GetU32()
	if err != nil {
		return err
	}
	r.ServerVersion = v
	return nil
}

// --- SetClientName (code 50) ----------------------------------------------

// SetClientName tells the daemon a display name for this connection. It
// has no reply.
type SetClientName struct {
	Name string
}

func (SetClientName) msgType() MessageType   { return MsgSetClientName }
func (s SetClientName) calcBodySize() uint32 { return uint32(stringSize(s.Name)) }
func (s SetClientName) encodeBody(w *Writer) { w.PutString(s.Name) }
func (s *SetClientName) decodeBody(r *Reader) error {
	v, err := r.GetString()
	if err != nil {
		return err
	}
	s.Name = v
	return nil
}

// --- DeviceListUpdated (code 100) -----------------------------------------

// DeviceListUpdated is a server-initiated notification that the device
// inventory changed (hot-plug, daemon-side rescan, ...). It carries no
// body and always bypasses the request/reply queue.
type DeviceListUpdated struct{}

func (DeviceListUpdated) msgType() MessageType      { return MsgDeviceListUpdated }
func (DeviceListUpdated) calcBodySize() uint32      { return 0 }
func (DeviceListUpdated) encodeBody(*Writer)        {}
func (*DeviceListUpdated) decodeBody(*Reader) error { return nil }

// --- ResizeZone (code 1000) -----------------------------------------------

// ResizeZone asks the daemon to change the LED count of a resizable zone.
// It has no reply.
type ResizeZone struct {
	ZoneIdx uint32
	NewSize uint32
}

func (ResizeZone) msgType() MessageType   { return MsgResizeZone }
func (r ResizeZone) calcBodySize() uint32 { return 8 }
func (r ResizeZone) encodeBody(w *Writer) {
	w.PutU32(r.ZoneIdx)
	w.PutU32(r.NewSize)
}
func (r *ResizeZone) decodeBody(rd *Reader) error {
	zoneIdx, err := rd.GetU32()
	if err != nil {
		return err
	}
	newSize, err := rd.GetU32()
	if err != nil {
		return err
	}
	r.ZoneIdx, r.NewSize = zoneIdx, newSize
	return nil
}

// --- UpdateLEDs (code 1050) -----------------------------------------------

// UpdateLEDs replaces every LED color on a device in one call. It has no
// reply.
type UpdateLEDs struct {
	DataSize uint32
	Colors   []Color
}

func (UpdateLEDs) msgType() MessageType { return MsgUpdateLEDs }
func (u UpdateLEDs) calcBodySize() uint32 {
	return 4 + 2 + uint32(len(u.Colors))*4
}
func (u UpdateLEDs) encodeBody(w *Writer) {
	w.PutU32(u.calcBodySize())
	w.PutU16(uint16(len(u.Colors)))
	for _, c := range u.Colors {
		w.PutColor(c)
	}
}
func (u *UpdateLEDs) decodeBody(r *Reader) error {
	dataSize, err := r.GetU32()
	if err != nil {
		return err
	}
	count, err := r.GetU16()
	if err != nil {
		return err
	}
	colors := make([]Color, count)
	for i := range colors {
		colors[i], err = r.GetColor()
		if err != nil {
			return err
		}
	}
	u.DataSize, u.Colors = dataSize, colors
	return nil
}

// --- UpdateZoneLEDs (code 1051) -------------------------------------------

// UpdateZoneLEDs replaces every LED color within one zone. It has no
// reply.
type UpdateZoneLEDs struct {
	DataSize uint32
	ZoneIdx  uint32
	Colors   []Color
}

func (UpdateZoneLEDs) msgType() MessageType { return MsgUpdateZoneLEDs }
func (u UpdateZoneLEDs) calcBodySize() uint32 {
	return 4 + 4 + 2 + uint32(len(u.Colors))*4
}
func (u UpdateZoneLEDs) encodeBody(w *Writer) {
	w.PutU32(u.calcBodySize())
	w.PutU32(u.ZoneIdx)
	w.PutU16(uint16(len(u.Colors)))
	for _, c := range u.Colors {
		w.PutColor(c)
	}
}
func (u *UpdateZoneLEDs) decodeBody(r *Reader) error {
	dataSize, err := r.GetU32()
	if err != nil {
		return err
	}
	zoneIdx, err := r.GetU32()
	if err != nil {
		return err
	}
	count, err := r.GetU16()
	if err != nil {
		return err
	}
	colors := make([]Color, count)
	for i := range colors {
		colors[i], err = r.GetColor()
		if err != nil {
			return err
		}
	}
	u.DataSize, u.ZoneIdx, u.Colors = dataSize, zoneIdx, colors
	return nil
}

// --- UpdateSingleLED (code 1052) ------------------------------------------

// UpdateSingleLED sets the color of exactly one LED. It has no reply.
type UpdateSingleLED struct {
	LedIdx uint32
	Color  Color
}

func (UpdateSingleLED) msgType() MessageType   { return MsgUpdateSingleLED }
func (u UpdateSingleLED) calcBodySize() uint32 { return 4 + 4 }
func (u UpdateSingleLED) encodeBody(w *Writer) {
	w.PutU32(u.LedIdx)
	w.PutColor(u.Color)
}
func (u *UpdateSingleLED) decodeBody(r *Reader) error {
	ledIdx, err := r.GetU32()
	if err != nil {
		return err
	}
	color, err := r.GetColor()
	if err != nil {
		return err
	}
	u.LedIdx, u.Color = ledIdx, color
	return nil
}

// --- SetCustomMode (code 1100) --------------------------------------------

// SetCustomMode switches a device into its "direct/custom" mode so
// subsequent UpdateLEDs calls take effect. It has no reply and no body.
type SetCustomMode struct{}

func (SetCustomMode) msgType() MessageType      { return MsgSetCustomMode }
func (SetCustomMode) calcBodySize() uint32      { return 0 }
func (SetCustomMode) encodeBody(*Writer)        {}
func (*SetCustomMode) decodeBody(*Reader) error { return nil }

// --- UpdateMode (code 1101) -----------------------------------------------

// UpdateMode pushes a modified ModeDescription back to the daemon. It has
// no reply. Whether this also changes the device's active mode is left
// unresolved by the upstream protocol itself; see DESIGN.md.
type UpdateMode struct {
	DataSize uint32
	ModeIdx  uint32
	Mode     ModeDescription
}

func (UpdateMode) msgType() MessageType { return MsgUpdateMode }
func (u UpdateMode) calcBodySize() uint32 {
	return 4 + 4 + uint32(u.Mode.CalcSize())
}
func (u UpdateMode) encodeBody(w *Writer) {
	w.PutU32(u.calcBodySize())
	w.PutU32(u.ModeIdx)
	u.Mode.Serialize(w)
}
func (u *UpdateMode) decodeBody(r *Reader) error {
	dataSize, err := r.GetU32()
	if err != nil {
		return err
	}
	modeIdx, err := r.GetU32()
	if err != nil {
		return err
	}
	var mode ModeDescription
	if err := mode.Deserialize(r); err != nil {
		return err
	}
	u.DataSize, u.ModeIdx, u.Mode = dataSize, modeIdx, mode
	return nil
}

// --- dispatch --------------------------------------------------------------

// bodyFactories maps (message type, flow) to a constructor for a fresh,
// zero-valued Body ready for decodeBody. Keeping this as one table, rather
// than a type switch threaded through the client, is the single place new
// message types need to be registered.
var bodyFactories = map[MessageType]map[flow]func() Body{
	MsgRequestControllerCount: {
		flowRequest: func() Body { return &RequestControllerCount{} },
		flowReply:   func() Body { return &ReplyControllerCount{} },
	},
	MsgRequestControllerData: {
		flowRequest: func() Body { return &RequestControllerData{} },
		flowReply:   func() Body { return &ReplyControllerData{} },
	},
	MsgRequestProtocolVersion: {
		flowRequest: func() Body { return &RequestProtocolVersion{} },
		flowReply:   func() Body { return &ReplyProtocolVersion{} },
	},
	MsgSetClientName: {
		flowRequest: func() Body { return &SetClientName{} },
	},
	MsgDeviceListUpdated: {
		flowReply: func() Body { return &DeviceListUpdated{} },
	},
	MsgResizeZone: {
		flowRequest: func() Body { return &ResizeZone{} },
	},
	MsgUpdateLEDs: {
		flowRequest: func() Body { return &UpdateLEDs{} },
	},
	MsgUpdateZoneLEDs: {
		flowRequest: func() Body { return &UpdateZoneLEDs{} },
	},
	MsgUpdateSingleLED: {
		flowRequest: func() Body { return &UpdateSingleLED{} },
	},
	MsgSetCustomMode: {
		flowRequest: func() Body { return &SetCustomMode{} },
	},
	MsgUpdateMode: {
		flowRequest: func() Body { return &UpdateMode{} },
	},
}

// newBody constructs a zero-valued Body for the given type and flow, for
// RecvFrame to populate.
func newBody(t MessageType, f flow) (Body, error) {
	byFlow, ok := bodyFactories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	ctor, ok := byFlow[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no body for this direction", ErrUnexpectedMessage, t)
	}
	return ctor(), nil
}

// Notification is a server-initiated message delivered outside the
// request/reply queue, surfaced to callers via Client.PollNotifications.
type Notification struct {
	Type      MessageType
	DeviceIdx uint32
}
