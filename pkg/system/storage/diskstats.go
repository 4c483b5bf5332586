package storage

import (
	"strconv"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/types"
)

// The "sectors" below are the standard UNIX 512-byte sectors, not any
// device- or filesystem-specific block size.
const sectorSize = 512

// DiskStat is one /proc/diskstats row. Counters are cumulative since boot.
// Ref: https://www.kernel.org/doc/Documentation/iostats.txt
type DiskStat struct {
	Major int
	Minor int
	Name  string

	ReadsCompleted  uint64 // 1 - # of reads completed
	ReadsMerged     uint64 // 2 - # of reads merged
	SectorsRead     uint64 // 3 - # of sectors read
	ReadMs          uint64 // 4 - # ms spent reading
	WritesCompleted uint64 // 5 - # of writes completed
	WritesMerged    uint64 // 6 - # of writes merged
	SectorsWritten  uint64 // 7 - # of sectors written
	WriteMs         uint64 // 8 - # ms spent writing
	IOInProgress    uint64 // 9 - # of I/Os currently in progress
	IOMs            uint64 // 10 - # ms spent doing I/Os
	WeightedIOMs    uint64 // 11 - weighted # ms spent doing I/Os
}

// ReadBytes returns the cumulative bytes read from the device.
func (d DiskStat) ReadBytes() types.Bytes {
	return types.Bytes(d.SectorsRead * sectorSize)
}

// WriteBytes returns the cumulative bytes written to the device.
func (d DiskStat) WriteBytes() types.Bytes {
	return types.Bytes(d.SectorsWritten * sectorSize)
}

// parseDiskStats parses /proc/diskstats text. Rows with fewer than the 11
// classic counters (early 2.6 partitions) are skipped; newer kernels
// append discard/flush columns, which are ignored.
func parseDiskStats(raw string) []DiskStat {
	var stats []DiskStat
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 14 {
			continue
		}
		d := DiskStat{Name: fields[2]}
		d.Major, _ = strconv.Atoi(fields[0])
		d.Minor, _ = strconv.Atoi(fields[1])

		dst := []*uint64{
			&d.ReadsCompleted, &d.ReadsMerged, &d.SectorsRead, &d.ReadMs,
			&d.WritesCompleted, &d.WritesMerged, &d.SectorsWritten, &d.WriteMs,
			&d.IOInProgress, &d.IOMs, &d.WeightedIOMs,
		}
		for i, p := range dst {
			*p, _ = strconv.ParseUint(fields[3+i], 10, 64)
		}
		stats = append(stats, d)
	}
	return stats
}
