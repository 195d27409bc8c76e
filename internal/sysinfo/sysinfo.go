// Package sysinfo returns static facts about the host process and OS for
// the built-in introspection tool.
package sysinfo

import (
	"os"
	"runtime"
)

// Info is a snapshot of environment facts.
type Info struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	GoVersion  string `json:"go_version"`
	Hostname   string `json:"hostname"`
	WorkingDir string `json:"working_dir"`
	PID        int    `json:"pid"`
	NumCPU     int    `json:"num_cpu"`
}

// Collect gathers the current facts. Fields that cannot be determined are
// left empty rather than failing the call.
func Collect() Info {
	info := Info{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
		PID:       os.Getpid(),
		NumCPU:    runtime.NumCPU(),
	}
	if host, err := os.Hostname(); err == nil {
		info.Hostname = host
	}
	if wd, err := os.Getwd(); err == nil {
		info.WorkingDir = wd
	}
	return info
}
