//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const configName = ".geopick.toml"

// CreateTestWorkspace creates a temporary directory the app runs in
func (d *Driver) CreateTestWorkspace() (string, error) {
	tmpDir := d.t.TempDir()
	d.workspace = tmpDir
	return tmpDir, nil
}

// WriteConfig writes the picker config into the workspace
func (d *Driver) WriteConfig(body string) error {
	if d.workspace == "" {
		return fmt.Errorf("workspace not created")
	}
	return os.WriteFile(filepath.Join(d.workspace, configName), []byte(body), 0o644)
}

// ReadConfig returns the saved config, or "" when none was written
func (d *Driver) ReadConfig() string {
	data, err := os.ReadFile(filepath.Join(d.workspace, configName))
	if err != nil {
		return ""
	}
	return string(data)
}

// WriteDataset writes a small location dataset into the workspace
func (d *Driver) WriteDataset(name string) (string, error) {
	path := filepath.Join(d.workspace, name)
	body := `[[regions]]
key = "Nordics"
leaves = ["Finland", "Norway"]

[[countries]]
name = "Norway"

  [[countries.provinces]]
  name = "Vestland"
  cities = ["Bergen"]
`
	return path, os.WriteFile(path, []byte(body), 0o644)
}

// WaitExit waits for the process to end
func (d *Driver) WaitExit(timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- d.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("process did not exit within %s", timeout)
	}
}
