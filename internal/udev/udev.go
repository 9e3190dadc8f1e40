package udev

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	RulesFile = "98-flash-external.rules"
	RulesPath = "/etc/udev/rules.d/"
	Group     = "dialout"
)

// SerialBridge is a USB to serial converter found on ESP boards and
// programming adapters.
type SerialBridge struct {
	Name     string
	VendorID string
}

var DefaultSerialBridges = []SerialBridge{
	{Name: "WCH CH340", VendorID: "1a86"},
	{Name: "Silicon Labs CP210x", VendorID: "10c4"},
	{Name: "FTDI", VendorID: "0403"},
}

// Rules renders one rule per bridge granting the group access to the tty.
func Rules(bridges []SerialBridge, group string) string {
	var b strings.Builder
	for _, bridge := range bridges {
		fmt.Fprintf(&b, "# %v\nSUBSYSTEM==\"tty\", ATTRS{idVendor}==\"%v\", GROUP=\"%v\", MODE=\"0660\"\n", bridge.Name, bridge.VendorID, group)
	}
	return b.String()
}

// Installed reports whether the rules file is present.
func Installed() bool {
	_, err := os.Stat(filepath.Join(RulesPath, RulesFile))
	return err == nil
}

// Setup installs the rules through sudo and asks udev to reload them. It does
// nothing when the rules are already installed.
func Setup(logger *logrus.Logger, bridges []SerialBridge) error {
	if Installed() {
		logger.Debugf("udev rules already installed at %v", filepath.Join(RulesPath, RulesFile))
		return nil
	}
	if _, err := os.Stat(RulesPath); os.IsNotExist(err) {
		logger.Debugf("running mkdir %v", RulesPath)
		err = exec.Command("sudo", "mkdir", "-p", RulesPath).Run()
		if err != nil {
			return err
		}
	}

	tmp, err := ioutil.TempFile("", RulesFile)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.WriteString(Rules(bridges, Group))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	logger.Debugf("running cp %v %v", tmp.Name(), RulesPath+RulesFile)
	err = exec.Command("sudo", "cp", tmp.Name(), RulesPath+RulesFile).Run()
	if err != nil {
		return err
	}
	err = exec.Command("sudo", "udevadm", "control", "--reload-rules").Run()
	if err != nil {
		logger.Debugf("udevadm control --reload-rules failed: %v", err)
	}
	err = exec.Command("sudo", "udevadm", "trigger").Run()
	if err != nil {
		logger.Debugf("udevadm trigger failed: %v", err)
	}
	return nil
}

func Remove() error {
	if !Installed() {
		return nil
	}
	return exec.Command("sudo", "rm", RulesPath+RulesFile).Run()
}
