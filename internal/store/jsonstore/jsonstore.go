package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/boken/internal/model"
)

// File-backed catalog for the demo server. Single file, human-readable;
// the extension picks the codec (.yml/.yaml -> YAML, anything else JSON).
// No locking; the server only reads it at startup.

const DefaultFileName = "catalog.json"

// User is an account the demo server accepts on /login/.
type User struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
	Admin    bool   `json:"admin" yaml:"admin"`
}

// Catalog is everything the demo server serves.
type Catalog struct {
	Users    []User       `json:"users" yaml:"users"`
	Webtoons []model.Item `json:"webtoons" yaml:"webtoons"`
}

// Default is the catalog used when no file is configured.
func Default() Catalog {
	return Catalog{
		Users: []User{
			{Email: "a@a.com", Password: "1234", Admin: true},
			{Email: "reader@example.com", Password: "reader", Admin: false},
		},
		Webtoons: []model.Item{
			{ID: 1, Title: "Solo Leveling", Description: "The weakest hunter levels up alone."},
			{ID: 2, Title: "Tower of God", Description: "A boy climbs a tower to find his friend."},
			{ID: 3, Title: "Omniscient Reader", Description: "The only reader of a novel watches it come true."},
		},
	}
}

func isYAML(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// Load reads the catalog at p. An empty path or a missing file yields Default().
func Load(p string) (Catalog, error) {
	if p == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Catalog{}, fmt.Errorf("read file: %w", err)
	}

	var c Catalog
	if isYAML(p) {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Catalog{}, fmt.Errorf("yaml unmarshal: %w", err)
		}
	} else if err := json.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if c.Webtoons == nil {
		c.Webtoons = []model.Item{}
	}
	return c, nil
}

// Save writes c to p, creating parent directories as needed.
func Save(p string, c Catalog) error {
	if p == "" {
		p = DefaultFileName
	}
	var (
		b   []byte
		err error
	)
	if isYAML(p) {
		b, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
	} else {
		b, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
	}
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	// 0600: the file holds plaintext demo passwords
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
