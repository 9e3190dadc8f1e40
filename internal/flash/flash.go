//go:generate mockgen -destination=mocks/mocks.go -package=mocks . OTAFlasher,USBFlasher,BridgeFlasher,Executor
package flash

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Arnold-n/P1P2MQTT/internal/tools"
	"github.com/Arnold-n/P1P2MQTT/internal/transport"
)

var (
	ErrFailedToFlash     = errors.New("failed to flash device")
	ErrToolNotConfigured = errors.New("no flashing tool configured")
)

type OTAFlasher interface {
	Upload(host, binary string) *tools.Command
}

type USBFlasher interface {
	WriteFlash(port, baud, binary string) *tools.Command
}

type BridgeFlasher interface {
	WriteFlash(bridgeIP, binary string) *tools.Command
}

type Executor interface {
	Run(ctx context.Context, cmd *tools.Command) error
}

type Config struct {
	OTA      OTAFlasher
	USB      USBFlasher
	Bridge   BridgeFlasher
	Executor Executor
	Logger   *logrus.Logger
}

type Dispatcher struct {
	ota      OTAFlasher
	usb      USBFlasher
	bridge   BridgeFlasher
	executor Executor
	logger   *logrus.Logger
}

func New(config *Config) *Dispatcher {
	return &Dispatcher{
		ota:      config.OTA,
		usb:      config.USB,
		bridge:   config.Bridge,
		executor: config.Executor,
		logger:   config.Logger,
	}
}

// Build assembles the command for req without running it.
func (d *Dispatcher) Build(req *Request) (*tools.Command, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	switch req.Transport {
	case transport.OTA:
		if d.ota == nil {
			return nil, fmt.Errorf("%w for %v", ErrToolNotConfigured, req.Transport)
		}
		return d.ota.Upload(req.UploadPort, req.BinaryPath), nil
	case transport.USB:
		if d.usb == nil {
			return nil, fmt.Errorf("%w for %v", ErrToolNotConfigured, req.Transport)
		}
		return d.usb.WriteFlash(req.UploadPort, req.UploadSpeed, req.BinaryPath), nil
	case transport.Bridge:
		if d.bridge == nil {
			return nil, fmt.Errorf("%w for %v", ErrToolNotConfigured, req.Transport)
		}
		return d.bridge.WriteFlash(req.BridgeIP, req.BinaryPath), nil
	}
	return nil, fmt.Errorf("%w: %v", transport.ErrUnknownTransport, req.Transport)
}

// Dispatch validates req, picks the tool for its transport and runs it once.
// Nothing is executed when validation fails.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) error {
	logger := d.logger.WithFields(logrus.Fields{
		"prefix":    req.Environment,
		"transport": req.Transport,
	})

	cmd, err := d.Build(req)
	if err != nil {
		if errors.Is(err, ErrMissingConfiguration) {
			logger.Errorf("not flashing, set it in platformio.ini or the environment: %v", err)
		}
		return err
	}

	switch req.Transport {
	case transport.OTA:
		logger.Infof("flashing external binary via OTA: %v to IP: %v", req.BinaryPath, req.Target())
	case transport.USB:
		logger.Infof("flashing external binary via USB: %v on port: %v", req.BinaryPath, req.Target())
	case transport.Bridge:
		logger.Infof("flashing external binary via bridge: %v to %v", req.BinaryPath, req.Target())
	}

	err = d.executor.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToFlash, err)
	}
	logger.Info("finished flashing external binary")
	return nil
}
