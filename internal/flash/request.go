package flash

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/Arnold-n/P1P2MQTT/internal/transport"
)

var (
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

var hostnamePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*$`)

// Request is one flash of one image to one device. It is built from
// configuration right before dispatch and not kept afterwards.
type Request struct {
	Environment string
	BinaryPath  string
	Transport   transport.Transport
	UploadPort  string
	UploadSpeed string
	BridgeIP    string
}

// Target is the device address the transport talks to.
func (r *Request) Target() string {
	if r.Transport == transport.Bridge {
		return r.BridgeIP
	}
	return r.UploadPort
}

// Validate reports every missing field at once, named the way they appear in
// platformio.ini.
func (r *Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.BinaryPath) == "" {
		missing = append(missing, "external_binary_path")
	}
	switch r.Transport {
	case transport.OTA:
		if strings.TrimSpace(r.UploadPort) == "" {
			missing = append(missing, "upload_port")
		}
	case transport.USB:
		if strings.TrimSpace(r.UploadPort) == "" {
			missing = append(missing, "upload_port")
		}
		if strings.TrimSpace(r.UploadSpeed) == "" {
			missing = append(missing, "upload_speed")
		}
	case transport.Bridge:
		if strings.TrimSpace(r.BridgeIP) == "" {
			missing = append(missing, "bridge_ip")
		}
	default:
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, transport.ErrUnknownTransport)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingConfiguration, strings.Join(missing, ", "))
	}
	if r.Transport == transport.Bridge && !validHost(r.BridgeIP) {
		return fmt.Errorf("%w: bridge_ip %q is not an IP address or hostname", ErrInvalidConfiguration, r.BridgeIP)
	}
	return nil
}

func validHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	return len(host) <= 253 && hostnamePattern.MatchString(host)
}
