package util

import (
	"os"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID returns a stable identifier of the current host.
// Falls back to the hostname and finally to an empty string.
// GetMachineID 获取当前机器的唯一标识符
func GetMachineID() string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ProtectedID("ya-note-service"); err == nil && id != "" {
			machineID = id
			return
		}
		if host, err := os.Hostname(); err == nil {
			machineID = strings.TrimSpace(host)
		}
	})
	return machineID
}
