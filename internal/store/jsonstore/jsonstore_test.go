package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	t.Parallel()

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Users) == 0 || len(c.Webtoons) == 0 {
		t.Fatalf("default catalog is empty: %+v", c)
	}
}

func TestLoad_MissingFileUsesDefault(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Webtoons) != len(Default().Webtoons) {
		t.Fatalf("webtoons = %d, want default", len(c.Webtoons))
	}
}

func TestSaveLoad_JSONAndYAML(t *testing.T) {
	t.Parallel()

	want := Default()
	for _, name := range []string{"catalog.json", "nested/catalog.yaml"} {
		p := filepath.Join(t.TempDir(), name)
		if err := Save(p, want); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(p)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if len(got.Webtoons) != len(want.Webtoons) || got.Webtoons[1] != want.Webtoons[1] {
			t.Errorf("%s: webtoons = %+v", name, got.Webtoons)
		}
		if len(got.Users) != len(want.Users) || got.Users[0] != want.Users[0] {
			t.Errorf("%s: users = %+v", name, got.Users)
		}
	}
}

func TestLoad_YAMLByHand(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "catalog.yml")
	body := `users:
  - email: admin@example.com
    password: secret
    admin: true
webtoons:
  - id: 7
    title: Lookism
    description: Two bodies.
`
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Webtoons) != 1 || c.Webtoons[0].ID != 7 || c.Webtoons[0].Title != "Lookism" {
		t.Errorf("webtoons = %+v", c.Webtoons)
	}
	if len(c.Users) != 1 || !c.Users[0].Admin {
		t.Errorf("users = %+v", c.Users)
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(p, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
