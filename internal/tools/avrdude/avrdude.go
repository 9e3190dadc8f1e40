package avrdude

import (
	"fmt"
	"path/filepath"

	"github.com/Arnold-n/P1P2MQTT/internal/tools"
)

const (
	Programmer = "avrisp"
	Part       = "atmega328p"
	// BridgePort is the TCP port of the ISP server running on the bridge.
	BridgePort = 328

	avrdudeExecutable = "avrdude"
	packageName       = "tool-avrdude"
)

type Tool struct {
	executable string
}

func New(hostOS string) (*Tool, error) {
	bundled := filepath.Join(tools.PackagesDir(), packageName, avrdudeExecutable)
	if hostOS == "windows" {
		bundled = bundled + ".exe"
	}
	executable, err := tools.Locate(avrdudeExecutable, bundled)
	if err != nil {
		return nil, err
	}
	return NewWithExecutable(executable), nil
}

func NewWithExecutable(executable string) *Tool {
	return &Tool{
		executable: executable,
	}
}

func (t *Tool) Name() string {
	return avrdudeExecutable
}

// WriteFlash erases the chip and writes an Intel HEX image through the
// network programmer at bridgeIP.
func (t *Tool) WriteFlash(bridgeIP, binary string) *tools.Command {
	return &tools.Command{
		Executable: t.executable,
		Args: []string{
			"-c", Programmer,
			"-p", Part,
			"-P", fmt.Sprintf("net:%v:%d", bridgeIP, BridgePort),
			"-e",
			fmt.Sprintf("-Uflash:w:%v:i", binary),
		},
	}
}
