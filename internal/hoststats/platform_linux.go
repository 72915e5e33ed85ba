//go:build linux

package hoststats

import (
	"syscall"

	"github.com/prometheus/procfs/sysfs"
)

func diskUsage(path string) (totalMB, freeMB uint64) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, 0
	}
	bsize := uint64(st.Bsize) // #nosec G115 -- block size is small and positive
	return st.Blocks * bsize / (1 << 20), st.Bavail * bsize / (1 << 20)
}

// cpuTemp returns the first thermal zone temperature in Celsius, or nil when
// the host exposes none (typical in containers and on dev machines).
func cpuTemp() *float64 {
	fs, err := sysfs.NewFS("/sys")
	if err != nil {
		return nil
	}
	zones, err := fs.ClassThermalZoneStats()
	if err != nil || len(zones) == 0 {
		return nil
	}
	c := float64(zones[0].Temp) / 1000.0
	return &c
}
