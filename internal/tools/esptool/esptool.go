package esptool

import (
	"path/filepath"

	"github.com/Arnold-n/P1P2MQTT/internal/tools"
)

const (
	Chip        = "esp8266"
	BaseAddress = "0x0"
	Before      = "default_reset"
	After       = "hard_reset"

	scriptName  = "esptool.py"
	packageName = "tool-esptoolpy"
)

type Tool struct {
	python string
	script string
}

// New resolves esptool.py. An explicit uploader path wins over the copy
// shipped in the PlatformIO packages directory.
func New(python, uploader string) (*Tool, error) {
	script, err := tools.Locate(scriptName, uploader, filepath.Join(tools.PackagesDir(), packageName, scriptName))
	if err != nil {
		return nil, err
	}
	return NewWithScript(python, script), nil
}

func NewWithScript(python, script string) *Tool {
	if python == "" {
		python = tools.DefaultPython
	}
	return &Tool{
		python: python,
		script: script,
	}
}

func (t *Tool) Name() string {
	return scriptName
}

// WriteFlash writes binary at the base of flash over the given serial port.
func (t *Tool) WriteFlash(port, baud, binary string) *tools.Command {
	return &tools.Command{
		Executable: t.python,
		Args: []string{
			t.script,
			"--before", Before,
			"--after", After,
			"--chip", Chip,
			"--port", port,
			"--baud", baud,
			"write_flash", BaseAddress, binary,
		},
	}
}
