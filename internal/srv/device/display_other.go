// +build !amd64

package device

import (
	"image"
	"sync"

	"github.com/mbonnet/oledsrv/internal/srv/config"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

type Display struct {
	lock        sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.BusCloser

	simulationMode bool
	config         *config.ServerConfig
	lastImg        image.Image
}

// No simulation window on device builds, simulation mode only skips the
// hardware.

func (d *Display) startSimulation() {
}

func (d *Display) invalidateSimulationWindow() {
}

func (d *Display) closeSimulationWindow() {
}
