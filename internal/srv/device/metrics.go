package device

import (
	"context"
	"time"

	"github.com/mbonnet/oledsrv/internal/srv/config"
	"github.com/mbonnet/oledsrv/internal/srv/screen"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

// Metrics reads host usage percentages for the system mode.
type Metrics struct {
	timeout  time.Duration
	diskPath string
}

func NewMetrics(config *config.ServerConfig) *Metrics {
	return &Metrics{
		timeout:  time.Duration(config.MetricsParam.TimeoutSeconds) * time.Second,
		diskPath: config.MetricsParam.DiskPath,
	}
}

// Snapshot returns a best-effort point-in-time snapshot. Every probe is
// bounded by the configured timeout. A failed probe leaves its field at
// zero, a gap on the panel beats a broken refresh loop.
func (d *Metrics) Snapshot(ctx context.Context) (screen.Metrics, time.Time) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var m screen.Metrics

	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		logrus.Warningf("Unable to read cpu usage: %v", err)
	} else if len(pcts) > 0 {
		m.CPUPct = pcts[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		logrus.Warningf("Unable to read memory usage: %v", err)
	} else {
		m.MemPct = vm.UsedPercent
	}

	if du, err := disk.UsageWithContext(ctx, d.diskPath); err != nil {
		logrus.Warningf("Unable to read disk usage: %v", err)
	} else {
		m.DiskPct = du.UsedPercent
	}

	return m, time.Now()
}
