package udev

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	rules := Rules(DefaultSerialBridges, Group)

	assert.Equal(t, len(DefaultSerialBridges)*2, strings.Count(rules, "\n"))
	assert.Contains(t, rules, "# WCH CH340\n")
	assert.Contains(t, rules, `SUBSYSTEM=="tty", ATTRS{idVendor}=="1a86", GROUP="dialout", MODE="0660"`)
	assert.Contains(t, rules, `ATTRS{idVendor}=="10c4"`)
	assert.Contains(t, rules, `ATTRS{idVendor}=="0403"`)
}
