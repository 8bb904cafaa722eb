package stats

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/pavelc4/aether-dl-bot/pkg/logger"
	"github.com/pavelc4/aether-dl-bot/pkg/utils"
)

// lowDiskThreshold triggers a startup warning for the download directory.
const lowDiskThreshold = 1 << 30

type HostInfo struct {
	OS           string
	Hostname     string
	SystemUptime time.Duration
	CPUCores     int

	MemTotal     uint64
	MemAvailable uint64

	DiskPath  string
	DiskTotal uint64
	DiskFree  uint64

	ProcessPID int
	ProcessRSS uint64
	GoVersion  string
}

// HostSnapshot collects what gopsutil can tell about the machine and the
// filesystem holding dir. Fields that cannot be read stay zero.
func HostSnapshot(dir string) *HostInfo {
	info := &HostInfo{
		CPUCores:   runtime.NumCPU(),
		DiskPath:   dir,
		ProcessPID: os.Getpid(),
		GoVersion:  runtime.Version(),
	}

	if hostInfo, err := host.Info(); err == nil {
		info.OS = hostInfo.OS
		info.Hostname = hostInfo.Hostname
		info.SystemUptime = time.Duration(hostInfo.Uptime) * time.Second
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.MemTotal = memInfo.Total
		info.MemAvailable = memInfo.Available
	}

	if diskInfo, err := disk.Usage(dir); err == nil {
		info.DiskTotal = diskInfo.Total
		info.DiskFree = diskInfo.Free
	}

	if proc, err := process.NewProcess(int32(info.ProcessPID)); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			info.ProcessRSS = memInfo.RSS
		}
	}

	return info
}

func (h *HostInfo) LowDisk() bool {
	return h.DiskTotal > 0 && h.DiskFree < lowDiskThreshold
}

func (h *HostInfo) Log() {
	logger.Info("Host",
		"os", h.OS,
		"hostname", h.Hostname,
		"cores", h.CPUCores,
		"uptime", utils.FormatDuration(h.SystemUptime),
		"mem_available", utils.FormatFileSize(int64(h.MemAvailable)),
		"mem_total", utils.FormatFileSize(int64(h.MemTotal)),
		"go", h.GoVersion,
	)
	logger.Info("Download disk",
		"path", h.DiskPath,
		"free", utils.FormatFileSize(int64(h.DiskFree)),
		"total", utils.FormatFileSize(int64(h.DiskTotal)),
	)
	if h.LowDisk() {
		logger.Warn("Low free space in download directory", "path", h.DiskPath, "free", utils.FormatFileSize(int64(h.DiskFree)))
	}
}

func (s StatSnapshot) Log() {
	logger.Info("Session summary",
		"downloads", s.Downloads,
		"videos", s.Videos,
		"documents", s.Documents,
		"failures", s.Failures,
		"bytes", utils.FormatFileSize(s.TotalBytes),
		"avg", s.AvgDuration.Round(time.Millisecond),
		"uptime", utils.FormatDuration(s.Uptime),
	)
}
