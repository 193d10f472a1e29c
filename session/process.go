package session

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
)

// ProcRoot is where ListProcesses looks for processes.
const ProcRoot = "/proc"

// Process is a running process as shown in the picker.
type Process struct {
	PID  uint32 `json:"pid"`
	Name string `json:"name"`
}

// Label renders the process the way the picker shows the current selection.
func (p Process) Label() string {
	return "☰ " + p.Name + ": " + strconv.FormatUint(uint64(p.PID), 10)
}

// MatchProcess reports whether p passes filter. An empty filter matches everything;
// otherwise the decimal pid must contain the filter, or the name must contain it
// ignoring case.
func MatchProcess(p Process, filter string) bool {
	if filter == "" {
		return true
	}
	if strings.Contains(strconv.FormatUint(uint64(p.PID), 10), filter) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter))
}

// FilterProcesses returns the processes that match filter, in input order.
func FilterProcesses(procs []Process, filter string) []Process {
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		if MatchProcess(p, filter) {
			out = append(out, p)
		}
	}
	return out
}

// ListProcesses reads the process table from a procfs mount, sorted by pid.
// Processes that exit while the table is read are skipped.
//
// Arguments:
//   - root: The procfs mount, usually ProcRoot.
//
// Returns:
//   - []Process: The processes.
//   - error: If root cannot be read. On platforms without procfs this wraps ErrNotSupported.
func ListProcesses(root string) ([]Process, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(common.ErrNotSupported, "no process table at %s", root)
		}
		return nil, errors.Wrapf(err, "list %s", root)
	}

	var procs []Process
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(root, e.Name(), "comm"))
		if err != nil {
			continue
		}
		procs = append(procs, Process{PID: uint32(pid), Name: strings.TrimSpace(string(comm))})
	}

	sort.Slice(procs, func(i, j int) bool {
		return procs[i].PID < procs[j].PID
	})
	return procs, nil
}
