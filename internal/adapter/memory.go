package adapter

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// defaultFreeMemKiB is used when the host's free memory can't be
// determined (e.g. non-Linux, or /proc/meminfo unreadable): 2 GiB, a
// conservative guess that still lets DerivedHash produce something
// sensible rather than zero.
const defaultFreeMemKiB = 2 << 20

// AvailableMemoryKiB best-effort reports the host's available memory in
// KiB, read from /proc/meminfo's MemAvailable line. Falls back to
// defaultFreeMemKiB if that file doesn't exist or doesn't parse (e.g.
// non-Linux hosts).
func AvailableMemoryKiB() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return defaultFreeMemKiB
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "MemAvailable:" {
			if kib, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				return kib
			}
		}
	}
	return defaultFreeMemKiB
}
