package flash

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/Arnold-n/P1P2MQTT/internal/flash/mocks"
	"github.com/Arnold-n/P1P2MQTT/internal/tools"
	"github.com/Arnold-n/P1P2MQTT/internal/tools/avrdude"
	"github.com/Arnold-n/P1P2MQTT/internal/tools/esptool"
	"github.com/Arnold-n/P1P2MQTT/internal/tools/espota"
	"github.com/Arnold-n/P1P2MQTT/internal/transport"
)

func TestDispatch(t *testing.T) {
	otaCommand := &tools.Command{Executable: "python3", Args: []string{"espota.py", "-i", "192.168.1.50", "-f", "firmware.bin"}}
	usbCommand := &tools.Command{Executable: "python3", Args: []string{"esptool.py", "write_flash", "0x0", "firmware.bin"}}
	bridgeCommand := &tools.Command{Executable: "avrdude", Args: []string{"-P", "net:10.0.0.5:328"}}

	tests := map[string]struct {
		request *Request
		prepare func(*mocks.MockOTAFlasher, *mocks.MockUSBFlasher,
			*mocks.MockBridgeFlasher, *mocks.MockExecutor)
		expectedErr error
	}{
		"ota upload runs espota": {
			request: &Request{BinaryPath: "firmware.bin", Transport: transport.OTA, UploadPort: "192.168.1.50"},
			prepare: func(mockOTA *mocks.MockOTAFlasher, mockUSB *mocks.MockUSBFlasher,
				mockBridge *mocks.MockBridgeFlasher, mockExecutor *mocks.MockExecutor) {
				gomock.InOrder(
					mockOTA.EXPECT().Upload("192.168.1.50", "firmware.bin").Times(1).Return(otaCommand),
					mockExecutor.EXPECT().Run(gomock.Any(), otaCommand).Times(1).Return(nil),
				)
			},
			expectedErr: nil,
		},
		"usb upload runs esptool": {
			request: &Request{BinaryPath: "firmware.bin", Transport: transport.USB, UploadPort: "/dev/ttyUSB0", UploadSpeed: "115200"},
			prepare: func(mockOTA *mocks.MockOTAFlasher, mockUSB *mocks.MockUSBFlasher,
				mockBridge *mocks.MockBridgeFlasher, mockExecutor *mocks.MockExecutor) {
				gomock.InOrder(
					mockUSB.EXPECT().WriteFlash("/dev/ttyUSB0", "115200", "firmware.bin").Times(1).Return(usbCommand),
					mockExecutor.EXPECT().Run(gomock.Any(), usbCommand).Times(1).Return(nil),
				)
			},
			expectedErr: nil,
		},
		"bridge upload runs avrdude": {
			request: &Request{BinaryPath: "avr.hex", Transport: transport.Bridge, BridgeIP: "10.0.0.5"},
			prepare: func(mockOTA *mocks.MockOTAFlasher, mockUSB *mocks.MockUSBFlasher,
				mockBridge *mocks.MockBridgeFlasher, mockExecutor *mocks.MockExecutor) {
				gomock.InOrder(
					mockBridge.EXPECT().WriteFlash("10.0.0.5", "avr.hex").Times(1).Return(bridgeCommand),
					mockExecutor.EXPECT().Run(gomock.Any(), bridgeCommand).Times(1).Return(nil),
				)
			},
			expectedErr: nil,
		},
		"missing binary path runs nothing": {
			request:     &Request{Transport: transport.OTA, UploadPort: "192.168.1.50"},
			expectedErr: ErrMissingConfiguration,
		},
		"blank binary path runs nothing": {
			request:     &Request{BinaryPath: "  ", Transport: transport.USB, UploadPort: "/dev/ttyUSB0", UploadSpeed: "115200"},
			expectedErr: ErrMissingConfiguration,
		},
		"bridge without ip runs nothing": {
			request:     &Request{BinaryPath: "avr.hex", Transport: transport.Bridge},
			expectedErr: ErrMissingConfiguration,
		},
		"bridge with malformed address runs nothing": {
			request:     &Request{BinaryPath: "avr.hex", Transport: transport.Bridge, BridgeIP: "10.0.0.5:80"},
			expectedErr: ErrInvalidConfiguration,
		},
		"usb without port runs nothing": {
			request:     &Request{BinaryPath: "firmware.bin", Transport: transport.USB, UploadSpeed: "115200"},
			expectedErr: ErrMissingConfiguration,
		},
		"unknown transport runs nothing": {
			request:     &Request{BinaryPath: "firmware.bin", UploadPort: "/dev/ttyUSB0"},
			expectedErr: transport.ErrUnknownTransport,
		},
		"tool failure is reported": {
			request: &Request{BinaryPath: "avr.hex", Transport: transport.Bridge, BridgeIP: "p1p2-bridge.local"},
			prepare: func(mockOTA *mocks.MockOTAFlasher, mockUSB *mocks.MockUSBFlasher,
				mockBridge *mocks.MockBridgeFlasher, mockExecutor *mocks.MockExecutor) {
				gomock.InOrder(
					mockBridge.EXPECT().WriteFlash("p1p2-bridge.local", "avr.hex").Times(1).Return(bridgeCommand),
					mockExecutor.EXPECT().Run(gomock.Any(), bridgeCommand).Times(1).Return(tools.ErrCommandFailure),
				)
			},
			expectedErr: ErrFailedToFlash,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockOTA := mocks.NewMockOTAFlasher(ctrl)
			mockUSB := mocks.NewMockUSBFlasher(ctrl)
			mockBridge := mocks.NewMockBridgeFlasher(ctrl)
			mockExecutor := mocks.NewMockExecutor(ctrl)

			if tc.prepare != nil {
				tc.prepare(mockOTA, mockUSB, mockBridge, mockExecutor)
			}

			logger := logrus.StandardLogger()
			logger.SetLevel(logrus.DebugLevel)
			dispatcher := New(&Config{
				OTA:      mockOTA,
				USB:      mockUSB,
				Bridge:   mockBridge,
				Executor: mockExecutor,
				Logger:   logger,
			})

			err := dispatcher.Dispatch(context.Background(), tc.request)
			if tc.expectedErr == nil {
				assert.Nil(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.expectedErr))
			}
		})
	}
}

func TestDispatchLogsWithEnvironmentPrefix(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usbCommand := &tools.Command{Executable: "python3", Args: []string{"esptool.py"}}
	mockUSB := mocks.NewMockUSBFlasher(ctrl)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	gomock.InOrder(
		mockUSB.EXPECT().WriteFlash("/dev/ttyUSB0", "115200", "firmware.bin").Times(1).Return(usbCommand),
		mockExecutor.EXPECT().Run(gomock.Any(), usbCommand).Times(1).Return(nil),
	)

	logger, hook := test.NewNullLogger()
	dispatcher := New(&Config{
		USB:      mockUSB,
		Executor: mockExecutor,
		Logger:   logger,
	})

	err := dispatcher.Dispatch(context.Background(), &Request{
		Environment: "bridge-usb",
		BinaryPath:  "firmware.bin",
		Transport:   transport.USB,
		UploadPort:  "/dev/ttyUSB0",
		UploadSpeed: "115200",
	})
	assert.Nil(t, err)

	entries := hook.AllEntries()
	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "bridge-usb", entry.Data["prefix"])
	}
	assert.Contains(t, entries[0].Message, "via USB: firmware.bin on port: /dev/ttyUSB0")
}

func TestDispatchWithoutToolForTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := New(&Config{
		USB:      mocks.NewMockUSBFlasher(ctrl),
		Executor: mocks.NewMockExecutor(ctrl),
		Logger:   logrus.StandardLogger(),
	})

	err := dispatcher.Dispatch(context.Background(), &Request{BinaryPath: "avr.hex", Transport: transport.Bridge, BridgeIP: "10.0.0.5"})
	assert.True(t, errors.Is(err, ErrToolNotConfigured))
}

func TestBuild(t *testing.T) {
	dispatcher := New(&Config{
		OTA:    espota.NewWithScript("python3", "espota.py"),
		USB:    esptool.NewWithScript("python3", "esptool.py"),
		Bridge: avrdude.NewWithExecutable("avrdude"),
		Logger: logrus.StandardLogger(),
	})

	t.Run("ota", func(t *testing.T) {
		cmd, err := dispatcher.Build(&Request{BinaryPath: "firmware.bin", Transport: transport.OTA, UploadPort: "192.168.1.50"})
		assert.Nil(t, err)
		line := cmd.String()
		assert.Contains(t, line, "--auth="+espota.Auth)
		assert.Contains(t, line, "-i 192.168.1.50")
		assert.Contains(t, line, "-f firmware.bin")
		assert.NotContains(t, line, esptool.Chip)
		assert.NotContains(t, line, "write_flash")
		assert.NotContains(t, line, avrdude.Programmer)
	})

	t.Run("usb", func(t *testing.T) {
		cmd, err := dispatcher.Build(&Request{BinaryPath: "firmware.bin", Transport: transport.USB, UploadPort: "/dev/ttyUSB0", UploadSpeed: "115200"})
		assert.Nil(t, err)
		line := cmd.String()
		assert.Contains(t, line, "--chip esp8266")
		assert.Contains(t, line, "--port /dev/ttyUSB0")
		assert.Contains(t, line, "--baud 115200")
		assert.True(t, strings.HasSuffix(line, "write_flash 0x0 firmware.bin"))
		assert.NotContains(t, line, espota.Auth)
	})

	t.Run("bridge", func(t *testing.T) {
		cmd, err := dispatcher.Build(&Request{BinaryPath: "avr.hex", Transport: transport.Bridge, BridgeIP: "10.0.0.5"})
		assert.Nil(t, err)
		assert.Contains(t, cmd.Args, "net:10.0.0.5:328")
		assert.Contains(t, cmd.Args, "-Uflash:w:avr.hex:i")
	})

	t.Run("same request yields same command", func(t *testing.T) {
		req := &Request{BinaryPath: "./build/P1P2 Monitor.hex", Transport: transport.Bridge, BridgeIP: "10.0.0.5"}
		first, err := dispatcher.Build(req)
		assert.Nil(t, err)
		second, err := dispatcher.Build(req)
		assert.Nil(t, err)
		assert.Equal(t, first.String(), second.String())
		assert.Contains(t, first.String(), "-Uflash:w:./build/P1P2 Monitor.hex:i")
	})
}

func TestRequestValidateListsAllMissingFields(t *testing.T) {
	err := (&Request{Transport: transport.USB}).Validate()
	assert.True(t, errors.Is(err, ErrMissingConfiguration))
	assert.Contains(t, err.Error(), "external_binary_path, upload_port, upload_speed")
}
