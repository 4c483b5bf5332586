package storage

import (
	"strconv"
	"strings"
)

// mountEntry is one parsed /proc/self/mounts line before capacity fill-in.
type mountEntry struct {
	device string
	path   string
	fsType FsType
}

// parseMounts parses /proc/self/mounts text: "device path fstype opts 0 0"
// per line, with whitespace in names encoded as octal escapes. A later
// entry for the same path shadows an earlier one (kernel overmount
// semantics), so the returned table has unique paths.
func parseMounts(raw string) []mountEntry {
	var (
		entries []mountEntry
		byPath  = make(map[string]int)
	)
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		e := mountEntry{
			device: unescapeOctal(fields[0]),
			path:   unescapeOctal(fields[1]),
			fsType: FsType(fields[2]),
		}
		if i, dup := byPath[e.path]; dup {
			entries[i] = e
			continue
		}
		byPath[e.path] = len(entries)
		entries = append(entries, e)
	}
	return entries
}

// unescapeOctal decodes the \0NN escapes the kernel uses for whitespace
// and backslashes in mount names (e.g. "\040" for space).
func unescapeOctal(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
