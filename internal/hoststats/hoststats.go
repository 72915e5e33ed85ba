// Package hoststats snapshots host health for the operator console. It reads
// /proc via prometheus/procfs; values that cannot be read on the current
// platform are simply omitted.
package hoststats

import (
	"time"

	"github.com/prometheus/procfs"

	"rigd/pkg/types"
)

// Collect gathers a point-in-time snapshot. Partial data is fine: only a
// completely unreadable /proc is an error.
func Collect() (types.HostStats, error) {
	var out types.HostStats

	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return out, err
	}

	if stat, err := fs.Stat(); err == nil && stat.BootTime > 0 {
		out.UptimeSeconds = time.Now().Unix() - int64(stat.BootTime)
	}
	if la, err := fs.LoadAvg(); err == nil {
		out.Load1, out.Load5, out.Load15 = la.Load1, la.Load5, la.Load15
	}
	if mi, err := fs.Meminfo(); err == nil {
		if mi.MemTotal != nil {
			out.MemTotalKB = *mi.MemTotal
		}
		if mi.MemAvailable != nil {
			out.MemAvailKB = *mi.MemAvailable
		}
	}

	out.DiskTotalMB, out.DiskFreeMB = diskUsage("/")
	out.CPUTempC = cpuTemp()
	return out, nil
}
