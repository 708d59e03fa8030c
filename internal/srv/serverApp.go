package srv

import (
	"os"
	"time"

	"github.com/mbonnet/oledsrv/internal/srv/config"
	"github.com/mbonnet/oledsrv/internal/srv/controller"
	"github.com/mbonnet/oledsrv/internal/srv/device"
	"github.com/mbonnet/oledsrv/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig

	displayDevice     *device.Display
	metricsDevice     *device.Metrics
	apiDevice         *device.Api
	displayController *controller.Controller
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of oledsrv server %s ...", version.AppVersion.String())

	app := &ServerApp{
		ServerConfig: config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	app.displayDevice = device.NewDisplay(app.ServerConfig)
	app.metricsDevice = device.NewMetrics(app.ServerConfig)
	app.displayController = controller.New(
		app.displayDevice,
		app.metricsDevice,
		time.Duration(app.DisplayParam.RefreshIntervalSeconds)*time.Second)
	app.apiDevice = device.NewApi(app.ServerConfig, app.displayController)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting oledsrv server ...")

	// Start display device
	s.displayDevice.Start()

	// Start refresh loop
	s.displayController.Start()

	// Start api device
	s.apiDevice.Start()
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping oledsrv server ...")

	// Stop api
	s.apiDevice.Stop()

	// Stop refresh loop
	s.displayController.Stop()

	// Blank the panel on the way out
	s.displayController.Clear()

	// Stop display device
	s.displayDevice.Stop()

	logrus.Printf("Server stopped")
	os.Exit(0)
}
