package espota

import (
	"path/filepath"

	"github.com/Arnold-n/P1P2MQTT/internal/tools"
)

// Auth is the OTA password baked into the P1P2MQTT bridge firmware.
const Auth = "P1P2MQTT"

const (
	scriptName  = "espota.py"
	packageName = "framework-arduinoespressif8266"
)

type Tool struct {
	python string
	script string
}

func New(python, uploader string) (*Tool, error) {
	script, err := tools.Locate(scriptName, uploader, filepath.Join(tools.PackagesDir(), packageName, "tools", scriptName))
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

func (t *Tool) Upload(host, binary string) *tools.Command {
	return &tools.Command{
		Executable: t.python,
		Args: []string{
			t.script,
			"--auth=" + Auth,
			"--debug",
			"--progress",
			"-i", host,
			"-f", binary,
		},
	}
}
