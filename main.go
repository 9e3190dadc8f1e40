package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/alecthomas/kingpin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Arnold-n/P1P2MQTT/internal/color"
	"github.com/Arnold-n/P1P2MQTT/internal/config"
	"github.com/Arnold-n/P1P2MQTT/internal/firmware"
	"github.com/Arnold-n/P1P2MQTT/internal/flash"
	"github.com/Arnold-n/P1P2MQTT/internal/logging"
	"github.com/Arnold-n/P1P2MQTT/internal/tools"
	"github.com/Arnold-n/P1P2MQTT/internal/tools/avrdude"
	"github.com/Arnold-n/P1P2MQTT/internal/tools/esptool"
	"github.com/Arnold-n/P1P2MQTT/internal/tools/espota"
	"github.com/Arnold-n/P1P2MQTT/internal/transport"
	"github.com/Arnold-n/P1P2MQTT/internal/udev"
)

var (
	hostOS             = runtime.GOOS
	logger             *logrus.Logger
	cleanupMutex       sync.Mutex
	cleanupDirectories []string
	udevInstalled      bool
)

type options struct {
	projectConf  string
	environments []string
	binary       string
	bridgeIP     string
	port         string
	speed        string
	protocol     string
	transport    string
	python       string
	uploader     string
	errorLog     string
	dryRun       bool
	parallel     bool
	setupUdev    bool
	debug        bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	app := kingpin.New("flash-external", "Flash a prebuilt P1P2 firmware image with esptool, espota or avrdude.")
	app.HelpFlag.Short('h')
	app.Flag("project-conf", "PlatformIO project file").Default(config.DefaultProjectConf).StringVar(&o.projectConf)
	app.Flag("environment", "environment to flash, repeatable. Defaults to default_envs").Short('e').StringsVar(&o.environments)
	app.Flag("binary", "overrides "+config.OptionBinaryPath).StringVar(&o.binary)
	app.Flag("bridge-ip", "overrides "+config.OptionBridgeIP).StringVar(&o.bridgeIP)
	app.Flag("port", "overrides "+config.OptionUploadPort).Short('p').StringVar(&o.port)
	app.Flag("speed", "overrides "+config.OptionUploadSpeed).StringVar(&o.speed)
	app.Flag("protocol", "overrides "+config.OptionUploadProtocol).StringVar(&o.protocol)
	app.Flag("transport", "force a transport instead of deriving it from upload_protocol").EnumVar(&o.transport, transport.Names()...)
	app.Flag("python", "python interpreter for esptool and espota").StringVar(&o.python)
	app.Flag("uploader", "path to esptool.py or espota.py").StringVar(&o.uploader)
	app.Flag("error-log", "file receiving warnings and errors, empty to disable").Default(logging.DefaultErrorLog).StringVar(&o.errorLog)
	app.Flag("dry-run", "print the command instead of running it").BoolVar(&o.dryRun)
	app.Flag("parallel", "flash all selected environments at once").BoolVar(&o.parallel)
	app.Flag("setup-udev", "install udev rules for USB serial adapters (linux)").BoolVar(&o.setupUdev)
	app.Flag("debug", "debug logging").BoolVar(&o.debug)

	if _, err := app.Parse(args); err != nil {
		return nil, fmt.Errorf("error: %w, try --help", err)
	}
	return o, nil
}

// apply lays command line values over c.
func (o *options) apply(c *config.Config) {
	set := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	set(&c.BinaryPath, o.binary)
	set(&c.BridgeIP, o.bridgeIP)
	set(&c.UploadPort, o.port)
	set(&c.UploadSpeed, o.speed)
	set(&c.UploadProtocol, o.protocol)
	set(&c.Transport, o.transport)
	set(&c.Python, o.python)
	set(&c.Uploader, o.uploader)
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red(err.Error()))
		os.Exit(2)
	}

	logger = logging.New(&logging.Config{
		Debug:    opts.debug,
		ErrorLog: opts.errorLog,
	})
	cleanupOnCtrlC()
	defer cleanup()

	if opts.setupUdev {
		if hostOS != "linux" {
			logger.Warnf("--setup-udev is only supported on linux, not %v", hostOS)
		} else {
			err := udev.Setup(logger, udev.DefaultSerialBridges)
			if err != nil {
				logger.Fatalf(color.Red("failed to setup udev: %v"), err)
			}
			udevInstalled = true
		}
	}

	configs, err := loadConfigs(opts)
	if err != nil {
		logger.Fatalf(color.Red("failed to load configuration: %v"), err)
	}

	if !flashConfigs(context.Background(), configs, opts.parallel, opts.dryRun) {
		logger.Error(color.Red("flashing failed"))
		cleanup()
		os.Exit(1)
	}
}

// flashConfigs flashes every environment and reports whether all of them
// succeeded. A failing environment never interrupts the others: a tool killed
// mid-write can leave a device half flashed.
func flashConfigs(ctx context.Context, configs []*config.Config, parallel, dryRun bool) bool {
	if !parallel || len(configs) <= 1 {
		ok := true
		for _, c := range configs {
			if report(c, flashEnvironment(ctx, c, dryRun)) != nil {
				ok = false
			}
		}
		return ok
	}

	g, _ := errgroup.WithContext(ctx)
	for _, c := range configs {
		currentConfig := c
		g.Go(func() error {
			return report(currentConfig, flashEnvironment(ctx, currentConfig, dryRun))
		})
	}
	return g.Wait() == nil
}

// loadConfigs returns one resolved configuration per selected environment.
// Without a project file the command line and environment variables are the
// only source.
func loadConfigs(opts *options) ([]*config.Config, error) {
	overrides, err := config.LoadOverrides()
	if err != nil {
		return nil, err
	}

	var configs []*config.Config
	if _, statErr := os.Stat(opts.projectConf); os.IsNotExist(statErr) && len(opts.environments) == 0 {
		logger.Debugf("no %v found, using command line and environment only", opts.projectConf)
		c := &config.Config{Environment: "cli"}
		c.Apply(overrides)
		opts.apply(c)
		return append(configs, c), nil
	}

	envs := opts.environments
	if len(envs) == 0 {
		envs, err = config.DefaultEnvironments(opts.projectConf)
		if err != nil {
			return nil, err
		}
	}
	for _, env := range envs {
		c, err := config.Load(opts.projectConf, env)
		if err != nil {
			return nil, err
		}
		c.Apply(overrides)
		opts.apply(c)
		configs = append(configs, c)
	}
	return configs, nil
}

// report logs the outcome of one environment. Missing configuration is not a
// failure: the environment is skipped like a build hook that returns early.
func report(c *config.Config, err error) error {
	envLogger := logger.WithField("prefix", c.Environment)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flash.ErrMissingConfiguration):
		envLogger.Warnf(color.Yellow("skipped, set it in %v or the environment: %v"), config.DefaultProjectConf, err)
		return nil
	default:
		envLogger.Error(err)
		return err
	}
}

func flashEnvironment(ctx context.Context, c *config.Config, dryRun bool) error {
	envLogger := logger.WithField("prefix", c.Environment)

	req, err := c.Request()
	if err != nil {
		return err
	}

	extension, err := req.Transport.Extension()
	if err != nil {
		return err
	}
	workingDirectory := ""
	if firmware.IsArchive(req.BinaryPath) {
		workingDirectory, err = tempExtractDir(c.Environment)
		if err != nil {
			return err
		}
	}
	binary, err := firmware.New(&firmware.Config{
		ImagePath:        req.BinaryPath,
		Extension:        extension,
		WorkingDirectory: workingDirectory,
		Logger:           logger,
	}).Resolve()
	if err != nil {
		return err
	}
	req.BinaryPath = binary

	flashConfig := &flash.Config{
		Executor: tools.NewRunner(logger),
		Logger:   logger,
	}
	switch req.Transport {
	case transport.OTA:
		tool, err := espota.New(c.Python, c.Uploader)
		if err != nil {
			if !dryRun {
				return err
			}
			tool = espota.NewWithScript(c.Python, "espota.py")
		}
		flashConfig.OTA = tool
	case transport.USB:
		tool, err := esptool.New(c.Python, c.Uploader)
		if err != nil {
			if !dryRun {
				return err
			}
			tool = esptool.NewWithScript(c.Python, "esptool.py")
		}
		flashConfig.USB = tool
	case transport.Bridge:
		tool, err := avrdude.New(hostOS)
		if err != nil {
			if !dryRun {
				return err
			}
			tool = avrdude.NewWithExecutable("avrdude")
		}
		flashConfig.Bridge = tool
	}
	dispatcher := flash.New(flashConfig)

	if dryRun {
		cmd, err := dispatcher.Build(req)
		if err != nil {
			return err
		}
		envLogger.Info(color.Green(cmd.String()))
		return nil
	}
	return dispatcher.Dispatch(ctx, req)
}

func tempExtractDir(usage string) (string, error) {
	dir, err := firmware.TempWorkingDirectory(usage)
	if err != nil {
		return "", err
	}
	cleanupMutex.Lock()
	cleanupDirectories = append(cleanupDirectories, dir)
	cleanupMutex.Unlock()
	return dir, nil
}

func cleanup() {
	cleanupMutex.Lock()
	defer cleanupMutex.Unlock()
	for _, dir := range cleanupDirectories {
		err := os.RemoveAll(dir)
		if err != nil {
			fmt.Printf("cleanup error removing dir %v: %v\n", dir, err)
		}
	}
	cleanupDirectories = nil
	if udevInstalled {
		if err := udev.Remove(); err != nil {
			fmt.Printf("cleanup error removing udev rules: %v\n", err)
		}
		udevInstalled = false
	}
	if logger != nil {
		logging.Close(logger)
	}
}

func cleanupOnCtrlC() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\r- Ctrl+C pressed in Terminal")
		cleanup()
		os.Exit(0)
	}()
}
