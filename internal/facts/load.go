package facts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"aramcoach/internal/types"
)

// LoadFacts reads everything stored for patch into a FactSet. It fails with
// ErrPatchNotFound when the patch has no data at all, and ErrDataCorrupt
// when a stored JSON column does not decode.
func (s *Store) LoadFacts(ctx context.Context, patch string) (*types.FactSet, error) {
	fs := &types.FactSet{
		Patch:     patch,
		Items:     make(map[int]types.Item),
		Champions: make(map[string]types.Champion),
		Runes:     make(map[int]types.Rune),
	}

	if err := s.loadItems(ctx, patch, fs); err != nil {
		return nil, err
	}
	if err := s.loadChampions(ctx, patch, fs); err != nil {
		return nil, err
	}
	if err := s.loadRunes(ctx, patch, fs); err != nil {
		return nil, err
	}
	if err := s.loadGuides(ctx, patch, fs); err != nil {
		return nil, err
	}

	if len(fs.Items) == 0 && len(fs.Champions) == 0 && len(fs.Runes) == 0 && len(fs.Guides) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPatchNotFound, patch)
	}
	return fs, nil
}

func (s *Store) loadItems(ctx context.Context, patch string, fs *types.FactSet) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, stats_json, tags_json, description FROM items WHERE patch = ? ORDER BY id`, patch)
	if err != nil {
		return fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it          types.Item
			statsJSON   sql.NullString
			tagsJSON    sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &statsJSON, &tagsJSON, &description); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}
		if statsJSON.Valid && statsJSON.String != "" {
			if err := json.Unmarshal([]byte(statsJSON.String), &it.Stats); err != nil {
				return fmt.Errorf("%w: item %d stats: %v", ErrDataCorrupt, it.ID, err)
			}
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &it.Tags); err != nil {
				return fmt.Errorf("%w: item %d tags: %v", ErrDataCorrupt, it.ID, err)
			}
		}
		it.Description = description.String
		fs.Items[it.ID] = it
	}
	return rows.Err()
}

func (s *Store) loadChampions(ctx context.Context, patch string, fs *types.FactSet) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, tags_json, notes FROM champions WHERE patch = ? ORDER BY key`, patch)
	if err != nil {
		return fmt.Errorf("querying champions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ch       types.Champion
			tagsJSON sql.NullString
			notes    sql.NullString
		)
		if err := rows.Scan(&ch.Key, &ch.Name, &tagsJSON, &notes); err != nil {
			return fmt.Errorf("scanning champion: %w", err)
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &ch.Tags); err != nil {
				return fmt.Errorf("%w: champion %s tags: %v", ErrDataCorrupt, ch.Key, err)
			}
		}
		ch.Notes = notes.String
		fs.Champions[ch.Key] = ch
	}
	return rows.Err()
}

func (s *Store) loadRunes(ctx context.Context, patch string, fs *types.FactSet) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, tree FROM runes WHERE patch = ? ORDER BY id`, patch)
	if err != nil {
		return fmt.Errorf("querying runes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r types.Rune
		if err := rows.Scan(&r.ID, &r.Name, &r.Tree); err != nil {
			return fmt.Errorf("scanning rune: %w", err)
		}
		fs.Runes[r.ID] = r
	}
	return rows.Err()
}

func (s *Store) loadGuides(ctx context.Context, patch string, fs *types.FactSet) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, champion, body FROM guides WHERE patch = ? ORDER BY id`, patch)
	if err != nil {
		return fmt.Errorf("querying guides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sn       types.Snippet
			champion sql.NullString
		)
		if err := rows.Scan(&sn.ID, &champion, &sn.Text); err != nil {
			return fmt.Errorf("scanning guide: %w", err)
		}
		sn.Champion = champion.String
		fs.Guides = append(fs.Guides, sn)
	}
	return rows.Err()
}
