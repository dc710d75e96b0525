package facts

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aramcoach/internal/types"
)

// Fixture is the on-disk shape of a patch data file.
type Fixture struct {
	Patch     string           `yaml:"patch"`
	Items     []types.Item     `yaml:"items"`
	Champions []types.Champion `yaml:"champions"`
	Runes     []types.Rune     `yaml:"runes"`
	Guides    []types.Snippet  `yaml:"guides"`
}

// SeedFile loads a yaml fixture from path and writes it into the store.
func (s *Store) SeedFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading fixture: %w", err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return "", fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	if fx.Patch == "" {
		return "", fmt.Errorf("fixture %s has no patch id", path)
	}
	if err := s.Seed(fx); err != nil {
		return "", err
	}
	return fx.Patch, nil
}

// Seed replaces all stored data for the fixture's patch in one transaction.
func (s *Store) Seed(fx Fixture) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"items", "champions", "runes", "guides"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE patch = ?", table), fx.Patch); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, it := range fx.Items {
		stats, err := json.Marshal(it.Stats)
		if err != nil {
			return fmt.Errorf("encoding item %d stats: %w", it.ID, err)
		}
		tags, err := json.Marshal(it.Tags)
		if err != nil {
			return fmt.Errorf("encoding item %d tags: %w", it.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO items (patch, id, name, price, stats_json, tags_json, description) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fx.Patch, it.ID, it.Name, it.Price, string(stats), string(tags), it.Description); err != nil {
			return fmt.Errorf("inserting item %d: %w", it.ID, err)
		}
	}

	for _, ch := range fx.Champions {
		tags, err := json.Marshal(ch.Tags)
		if err != nil {
			return fmt.Errorf("encoding champion %s tags: %w", ch.Key, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO champions (patch, key, name, tags_json, notes) VALUES (?, ?, ?, ?, ?)`,
			fx.Patch, ch.Key, ch.Name, string(tags), ch.Notes); err != nil {
			return fmt.Errorf("inserting champion %s: %w", ch.Key, err)
		}
	}

	for _, r := range fx.Runes {
		if _, err := tx.Exec(
			`INSERT INTO runes (patch, id, name, tree) VALUES (?, ?, ?, ?)`,
			fx.Patch, r.ID, r.Name, r.Tree); err != nil {
			return fmt.Errorf("inserting rune %d: %w", r.ID, err)
		}
	}

	for _, g := range fx.Guides {
		if _, err := tx.Exec(
			`INSERT INTO guides (patch, id, champion, body) VALUES (?, ?, ?, ?)`,
			fx.Patch, g.ID, g.Champion, g.Text); err != nil {
			return fmt.Errorf("inserting guide %s: %w", g.ID, err)
		}
	}

	return tx.Commit()
}
