package device

import (
	"image"

	"github.com/mbonnet/oledsrv/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

func NewDisplay(config *config.ServerConfig) *Display {
	return &Display{
		simulationMode: config.SimulationMode,
		config:         config,
		lastImg:        image.NewGray(image.Rect(0, 0, 128, 64)),
	}
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	if d.simulationMode {
		d.startSimulation()
		return
	}

	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize periph host: %v\n", err)
	}

	var err error
	// Open a handle to the I2C bus the panel is wired to:
	d.i2cBus, err = i2creg.Open(d.config.DisplayParam.I2cBus)
	if err != nil {
		logrus.Fatalf("Unable to open i2c bus: %v\n", err)
	}

	// Open a handle to a ssd1306 connected on the I2C bus:
	d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &ssd1306.DefaultOpts)
	if err != nil {
		logrus.Fatalf("Unable to initialize oled display: %v\n", err)
	}

	d.oledDisplay.SetContrast(d.config.DisplayParam.Contrast)
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.simulationMode {
		d.closeSimulationWindow()
		return
	}

	d.oledDisplay.Halt()
	d.i2cBus.Close()
}

// Commit transmits a finished frame to the panel. The controller calls it
// from one goroutine at a time, the lock additionally covers Stop and the
// simulation window reading the last frame.
func (d *Display) Commit(img image.Image) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.lastImg = img
	if d.simulationMode {
		d.invalidateSimulationWindow()
		return nil
	}
	return d.oledDisplay.Draw(d.oledDisplay.Bounds(), img, image.Point{})
}
