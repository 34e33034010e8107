package e2e

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/catalog"
)

// seedFixture writes an offline catalog and a config pointing at it under
// homeDir. Returns the config path.
func seedFixture(homeDir string) (string, error) {
	dataDir := filepath.Join(homeDir, ".cardscope")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	dbPath := filepath.Join(dataDir, "catalog.db")
	cat, err := catalog.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer cat.Close()

	raws := []card.Raw{
		{
			Set:       "SOR",
			Number:    "010",
			Name:      "Darth Vader",
			Type:      "Leader",
			Cost:      7,
			Power:     5,
			FrontText: "Fixture front text for the detail overlay.",
		},
		{Set: "SOR", Number: "005", Name: "Luke Skywalker", Type: "Leader", Cost: 6, Power: 4},
		{Set: "SHD", Number: "001", Name: "Boba Fett", Type: "Unit", Cost: 5, Power: 4},
	}
	if _, err := cat.Import(raws); err != nil {
		return "", err
	}

	conf := fmt.Sprintf(`[api]
timeout = "5s"

[ui]
default_sort = "name"
alt_screen = false

[catalog]
path = %q
offline = true

[log]
events_path = %q
`, dbPath, filepath.Join(dataDir, "events.jsonl"))
	confPath := filepath.Join(dataDir, "config.toml")
	if err := os.WriteFile(confPath, []byte(conf), 0644); err != nil {
		return "", err
	}
	return confPath, nil
}
