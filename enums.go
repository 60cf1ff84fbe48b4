package orgb

import (
	"fmt"
	"strings"
)

// MessageType identifies the kind of a message body and dispatches
// decoding. The same code is shared between
// a request and its reply; direction disambiguates them (see message.go).
type MessageType uint32

const (
	MsgRequestControllerCount MessageType = 0
	MsgRequestControllerData  MessageType = 1
	MsgRequestProtocolVersion MessageType = 40
	MsgSetClientName          MessageType = 50
	MsgDeviceListUpdated      MessageType = 100
	MsgResizeZone             MessageType = 1000
	MsgUpdateLEDs             MessageType = 1050
	MsgUpdateZoneLEDs         MessageType = 1051
	MsgUpdateSingleLED        MessageType = 1052
	MsgSetCustomMode          MessageType = 1100
	MsgUpdateMode             MessageType = 1101
)

func (t MessageType) String() string {
	switch t {
	case MsgRequestControllerCount:
		return "RequestControllerCount"
	case MsgRequestControllerData:
		return "RequestControllerData"
	case MsgRequestProtocolVersion:
		return "RequestProtocolVersion"
	case MsgSetClientName:
		return "SetClientName"
	case MsgDeviceListUpdated:
		return "DeviceListUpdated"
	case MsgResizeZone:
		return "ResizeZone"
	case MsgUpdateLEDs:
		return "UpdateLEDs"
	case MsgUpdateZoneLEDs:
		return "UpdateZoneLEDs"
	case MsgUpdateSingleLED:
		return "UpdateSingleLED"
	case MsgSetCustomMode:
		return "SetCustomMode"
	case MsgUpdateMode:
		return "UpdateMode"
	default:
		return fmt.Sprintf("MessageType(%d)", uint32(t))
	}
}

// knownMessageType reports whether t is a code this package understands.
// DecodeHeader uses this to fail fast with ErrUnknownType.
func knownMessageType(t MessageType) bool {
	switch t {
	case MsgRequestControllerCount, MsgRequestControllerData, MsgRequestProtocolVersion,
		MsgSetClientName, MsgDeviceListUpdated, MsgResizeZone, MsgUpdateLEDs,
		MsgUpdateZoneLEDs, MsgUpdateSingleLED, MsgSetCustomMode, MsgUpdateMode:
		return true
	default:
		return false
	}
}

// DeviceType classifies the kind of RGB peripheral a DeviceDescription
// describes.
type DeviceType uint32

const (
	DeviceMotherboard  DeviceType = 0
	DeviceDRAM         DeviceType = 1
	DeviceGPU          DeviceType = 2
	DeviceCooler       DeviceType = 3
	DeviceLEDStrip     DeviceType = 4
	DeviceKeyboard     DeviceType = 5
	DeviceMouse        DeviceType = 6
	DeviceMouseMat     DeviceType = 7
	DeviceHeadset      DeviceType = 8
	DeviceHeadsetStand DeviceType = 9
	DeviceGamepad      DeviceType = 10
	DeviceUnknown      DeviceType = 11
)

func (t DeviceType) String() string {
	switch t {
	case DeviceMotherboard:
		return "Motherboard"
	case DeviceDRAM:
		return "DRAM"
	case DeviceGPU:
		return "GPU"
	case DeviceCooler:
		return "Cooler"
	case DeviceLEDStrip:
		return "LedStrip"
	case DeviceKeyboard:
		return "Keyboard"
	case DeviceMouse:
		return "Mouse"
	case DeviceMouseMat:
		return "MouseMat"
	case DeviceHeadset:
		return "Headset"
	case DeviceHeadsetStand:
		return "HeadsetStand"
	case DeviceGamepad:
		return "Gamepad"
	case DeviceUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("DeviceType(%d)", uint32(t))
	}
}

// ModeFlags is an OR-able bitset describing which optional ModeDescription
// attributes a mode actually uses. Unknown bits round-trip untouched; this
// package never masks flags it doesn't recognize.
type ModeFlags uint32

const (
	ModeHasSpeed             ModeFlags = 1 << 0
	ModeHasDirectionLR       ModeFlags = 1 << 1
	ModeHasDirectionUD       ModeFlags = 1 << 2
	ModeHasDirectionHV       ModeFlags = 1 << 3
	ModeHasBrightness        ModeFlags = 1 << 4
	ModeHasPerLedColor       ModeFlags = 1 << 5
	ModeHasModeSpecificColor ModeFlags = 1 << 6
	ModeHasRandomColor       ModeFlags = 1 << 7
)

// Has reports whether every bit in want is set in f.
func (f ModeFlags) Has(want ModeFlags) bool {
	return f&want == want
}

func (f ModeFlags) String() string {
	var names []string
	add := func(bit ModeFlags, name string) {
		if f&bit != 0 {
			names = append(names, name)
		}
	}
	add(ModeHasSpeed, "HasSpeed")
	add(ModeHasDirectionLR, "HasDirectionLR")
	add(ModeHasDirectionUD, "HasDirectionUD")
	add(ModeHasDirectionHV, "HasDirectionHV")
	add(ModeHasBrightness, "HasBrightness")
	add(ModeHasPerLedColor, "HasPerLedColor")
	add(ModeHasModeSpecificColor, "HasModeSpecificColor")
	add(ModeHasRandomColor, "HasRandomColor")
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "|")
}

// Direction describes which way a color effect travels. Only meaningful
// when the owning mode's flags advertise the matching HasDirection* bit.
type Direction uint32

const (
	DirectionLeft       Direction = 0
	DirectionRight      Direction = 1
	DirectionUp         Direction = 2
	DirectionDown       Direction = 3
	DirectionHorizontal Direction = 4
	DirectionVertical   Direction = 5
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "Left"
	case DirectionRight:
		return "Right"
	case DirectionUp:
		return "Up"
	case DirectionDown:
		return "Down"
	case DirectionHorizontal:
		return "Horizontal"
	case DirectionVertical:
		return "Vertical"
	default:
		return fmt.Sprintf("Direction(%d)", uint32(d))
	}
}

// ColorMode describes how a mode's colors are determined.
type ColorMode uint32

const (
	ColorModeNone         ColorMode = 0
	ColorModePerLED       ColorMode = 1
	ColorModeModeSpecific ColorMode = 2
	ColorModeRandom       ColorMode = 3
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeNone:
		return "None"
	case ColorModePerLED:
		return "PerLed"
	case ColorModeModeSpecific:
		return "ModeSpecific"
	case ColorModeRandom:
		return "Random"
	default:
		return fmt.Sprintf("ColorMode(%d)", uint32(m))
	}
}

// ZoneType describes the physical layout of a zone's LEDs.
type ZoneType uint32

const (
	ZoneTypeSingle ZoneType = 0
	ZoneTypeLinear ZoneType = 1
	ZoneTypeMatrix ZoneType = 2
)

func (z ZoneType) String() string {
	switch z {
	case ZoneTypeSingle:
		return "Single"
	case ZoneTypeLinear:
		return "Linear"
	case ZoneTypeMatrix:
		return "Matrix"
	default:
		return fmt.Sprintf("ZoneType(%d)", uint32(z))
	}
}
