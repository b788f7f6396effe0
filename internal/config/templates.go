package config

import (
	"fmt"
	"os"
)

func Template() string {
	return usbctlTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(usbctlTemplate), 0o600)
}

const usbctlTemplate = `name = "usbctl"
addr = ":9000"
cors_origins = ["http://localhost:3000"]
# auth_token = ""

[mode]
perm_path = "/mnt/data/mode.cfg"
tmp_path = "/mnt/data/mode_tmp.cfg"
`
