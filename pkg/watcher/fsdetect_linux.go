//go:build linux

package watcher

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	nfsSuperMagic  int64 = 0x6969
	cifsSuperMagic int64 = 0xFF534D42
	smb2SuperMagic int64 = 0xFE534D42
	fuseSuperMagic int64 = 0x65735546
)

func detectFilesystemType(path string) FilesystemType {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return FSTypeUnknown
	}

	switch int64(stat.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case cifsSuperMagic, smb2SuperMagic:
		return FSTypeSMB
	case fuseSuperMagic:
		if strings.Contains(mountFSType(path), "sshfs") {
			return FSTypeSSHFS
		}
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}

// mountFSType returns the fstype column of the longest mountinfo entry
// containing path, or "".
func mountFSType(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	f, err := os.Open("/proc/self/mountinfo")
	if err != nil {
		return ""
	}
	defer f.Close()

	best, bestType := "", ""
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		// id parent major:minor root mount_point options ... - fstype source opts
		before, after, ok := strings.Cut(sc.Text(), " - ")
		if !ok {
			continue
		}
		fields, tail := strings.Fields(before), strings.Fields(after)
		if len(fields) < 5 || len(tail) < 1 {
			continue
		}
		mount := unescapeMountField(fields[4])
		if withinMount(abs, mount) && len(mount) > len(best) {
			best, bestType = mount, tail[0]
		}
	}
	return bestType
}

func withinMount(path, mount string) bool {
	if mount == "/" || path == mount {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(mount, "/")+"/")
}

// unescapeMountField undoes the octal escapes /proc uses for whitespace.
func unescapeMountField(s string) string {
	return strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`).Replace(s)
}
