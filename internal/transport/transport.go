package transport

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTransport = errors.New("unknown transport")
	ErrUnknownProtocol  = errors.New("unknown upload protocol")
)

// Transport is the way a firmware image reaches the target device.
type Transport int

const (
	// OTA uploads to an ESP over the network with espota.
	OTA Transport = iota + 1
	// USB writes to an ESP over a serial port with esptool.
	USB
	// Bridge programs an AVR through the ISP server on a network bridge.
	Bridge
)

const (
	ProtocolESPOTA  = "espota"
	ProtocolESPTool = "esptool"

	PlatformAtmelAVR = "atmelavr"
)

var names = map[Transport]string{
	OTA:    "ota",
	USB:    "usb",
	Bridge: "bridge",
}

// Names lists the accepted transport names in declaration order.
func Names() []string {
	return []string{names[OTA], names[USB], names[Bridge]}
}

func (t Transport) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("transport(%d)", int(t))
}

// Valid reports whether t is one of the declared variants.
func (t Transport) Valid() bool {
	_, ok := names[t]
	return ok
}

// Extension is the image file extension the transport's tool expects.
func (t Transport) Extension() (string, error) {
	switch t {
	case OTA, USB:
		return ".bin", nil
	case Bridge:
		return ".hex", nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnknownTransport, t)
}

func Parse(name string) (Transport, error) {
	for t, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
}

// FromProtocol selects a transport from the PlatformIO upload_protocol and
// platform options. AVR projects always go through the bridge; ESP projects
// default to USB unless espota is requested.
func FromProtocol(protocol, platform string) (Transport, error) {
	if strings.EqualFold(strings.TrimSpace(platform), PlatformAtmelAVR) {
		return Bridge, nil
	}
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case ProtocolESPOTA:
		return OTA, nil
	case "", ProtocolESPTool:
		return USB, nil
	}
	return 0, fmt.Errorf("%w: %q (expected %v or %v)", ErrUnknownProtocol, protocol, ProtocolESPOTA, ProtocolESPTool)
}
