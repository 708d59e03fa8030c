package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	ApiParam     ApiParam     `yaml:"api"`
	DisplayParam DisplayParam `yaml:"display"`
	MetricsParam MetricsParam `yaml:"metrics"`
}

type ApiParam struct {
	Port int64 `yaml:"port"`
	Ssl  bool  `yaml:"ssl"`
}

type DisplayParam struct {
	// RefreshIntervalSeconds drives the periodic re-render of the active
	// mode. One second is plenty for clock and system content.
	RefreshIntervalSeconds int64 `yaml:"refresh_interval_seconds"`
	// I2cBus selects the bus the oled panel is wired to, empty means the
	// first available one.
	I2cBus   string `yaml:"i2c_bus"`
	Contrast uint8  `yaml:"contrast"`
}

type MetricsParam struct {
	TimeoutSeconds int64  `yaml:"timeout_seconds"`
	DiskPath       string `yaml:"disk_path"`
}
