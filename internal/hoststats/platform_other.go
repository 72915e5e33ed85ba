//go:build !linux

package hoststats

func diskUsage(path string) (totalMB, freeMB uint64) { return 0, 0 }

func cpuTemp() *float64 { return nil }
