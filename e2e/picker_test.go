//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWildcardSaveWritesConfig(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, d.StartApp())

	require.True(t, d.Ready(), "Should render the picker")
	require.True(t, d.SeePlain("Worldwide"), "Should offer the wildcard")
	require.True(t, d.SeePlain("Europe"), "Should list regions")

	require.NoError(t, d.Wildcard())
	require.True(t, d.SeePlain("Selected: Worldwide"))

	require.NoError(t, d.Save())
	require.NoError(t, d.WaitExit(3*time.Second))

	assert.Contains(t, d.ReadConfig(), `"Worldwide"`)
}

func TestCountryPickerChoosesRoot(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, d.WriteConfig(`version = 1

[provider]
kind = "builtin"

[fields.city_locations]
variant = "country"
values = []
`))
	require.NoError(t, d.StartApp("-field", "city_locations"))

	require.True(t, d.SeePlain("Choose a country"), "No stored country opens the country list")

	// Canada is first, France second
	require.NoError(t, d.Down())
	require.NoError(t, d.Enter())
	require.True(t, d.SeePlain("Country: France"))
	require.True(t, d.SeePlain("Île-de-France"))

	require.NoError(t, d.Wildcard())
	require.True(t, d.SeePlain("Selected: Anywhere in France"))

	require.NoError(t, d.Save())
	require.NoError(t, d.WaitExit(3*time.Second))
	assert.Contains(t, d.ReadConfig(), "Anywhere in France")
}

func TestDiscardAsksAndKeepsConfig(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, d.StartApp())
	require.True(t, d.Ready())

	require.NoError(t, d.Wildcard())
	require.NoError(t, d.Quit())
	require.True(t, d.SeePlain("Discard unsaved changes?"))

	require.NoError(t, d.SendKeys("y"))
	require.NoError(t, d.WaitExit(3*time.Second))
	assert.Empty(t, d.ReadConfig(), "Cancelling must not write the config")
}

func TestUnavailableProviderRetry(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, d.WriteConfig(`version = 1

[provider]
kind = "toml"
path = "nordics.toml"
`))
	require.NoError(t, d.StartApp())

	require.True(t, d.SeePlain("Locations are unavailable"))
	require.True(t, d.SeePlain("Press r to retry"))

	_, err = d.WriteDataset("nordics.toml")
	require.NoError(t, err)
	require.NoError(t, d.SendKeys("r"))
	require.True(t, d.SeePlain("Nordics"), "Retry should load the new file")

	require.NoError(t, d.SendCtrlC())
	require.NoError(t, d.WaitExit(3*time.Second))
}

func TestHelpOpensPager(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, d.StartApp())
	require.True(t, d.Ready())

	require.NoError(t, d.SendKeys(KeyHelp))
	require.True(t, d.SeePlain("geopick Help"))
	require.True(t, d.SeePlain("whole scope"))

	// q leaves the pager, the picker is still running
	require.NoError(t, d.SendKeys(KeyQuit))
	require.True(t, d.SeePlain("Worldwide"))

	require.NoError(t, d.SendCtrlC())
	if err := d.WaitExit(3 * time.Second); err != nil {
		d.DumpTailOnFail(t, "help-exit", 4096)
		t.Fatal(err)
	}
}

func TestSaveDisabledWithoutSelection(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, d.StartApp())
	require.True(t, d.Ready())

	require.NoError(t, d.Save())
	require.NoError(t, d.Expect("save disabled", 3*time.Second))

	// Still open: a wildcard makes the save go through
	require.NoError(t, d.Wildcard())
	require.NoError(t, d.Save())
	require.NoError(t, d.WaitExit(3*time.Second))
	assert.Contains(t, d.ReadConfig(), `"Worldwide"`)
}

func TestFilterThenPick(t *testing.T) {
	t.Parallel()
	d := NewDriver(t)
	defer d.Cleanup()

	_, err := d.CreateTestWorkspace()
	require.NoError(t, err)
	_, err = d.WriteDataset("nordics.toml")
	require.NoError(t, err)
	require.NoError(t, d.WriteConfig(`version = 1

[provider]
kind = "toml"
path = "nordics.toml"
`))
	require.NoError(t, d.StartApp())
	require.NoError(t, d.Expect("Nordics", 5*time.Second))

	require.NoError(t, d.Filter("nor"))
	require.NoError(t, d.Expect("Norway", 3*time.Second))

	require.NoError(t, d.Enter())
	require.NoError(t, d.Select())
	if err := d.Expect("Selected: Norway", 3*time.Second); err != nil {
		d.DumpTailOnFail(t, "filter-pick", 4096)
		t.Fatal(err)
	}

	require.NoError(t, d.Save())
	require.NoError(t, d.WaitExit(3*time.Second))
	assert.Contains(t, d.ReadConfig(), `"Norway"`)
}
