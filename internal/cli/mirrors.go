// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// defaultMirrors is the compiled-in mirror list, reproduced from the
// original implementation's get_image(). Overridable via mirrorConfig.
var defaultMirrors = []string{
	"https://images-frontdoor.apps.ocp.ci.centos.org/",
	"https://images-cockpit.apps.ci.centos.org/",
	"https://cockpit-11.e2e.bos.redhat.com:8493/",
	"https://10.29.163.169:8493/",
}

// mirrorConfig is the optional imgfetch.json override, resolved through
// the XDG config directory. Its absence is not an error.
type mirrorConfig struct {
	Mirrors []string `json:"mirrors"`
}

// loadMirrors returns the configured mirror list: the contents of
// configPath's "mirrors" array if the file exists and that array is
// non-empty, or defaultMirrors if the file is missing or the array is
// empty. A file that exists but cannot be read or parsed is an error.
func loadMirrors(configPath string) ([]string, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultMirrors, nil
		}
		return nil, err
	}

	var cfg mirrorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Mirrors) == 0 {
		return defaultMirrors, nil
	}
	return cfg.Mirrors, nil
}

// resolveCABundle locates the trust anchor used to validate mirror
// certificates: an XDG-resolved override first, falling back to a
// ca.pem placed next to the running executable, mirroring
// ca_pem=os.path.join(os.path.dirname(__file__), 'ca.pem') in the
// original implementation.
func resolveCABundle(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), "ca.pem"), nil
}
