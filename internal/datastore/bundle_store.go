package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/urlist/internal/models"
	"github.com/google/uuid"
)

// NewBundle is the input for CreateBundle. Links keep the given order.
type NewBundle struct {
	UserID      string
	VanityURL   string
	Title       string
	Description string
	Links       []models.LinkInput
}

// BundleUpdate carries the fields to change. Nil fields are left alone;
// a non-nil Links replaces every existing link.
type BundleUpdate struct {
	Title       *string
	Description *string
	Links       *[]models.LinkInput
}

// LinkUpdate carries the link fields to change. Nil fields are left alone.
type LinkUpdate struct {
	URL         *string
	Title       *string
	Description *string
	Image       *string
}

const linkColumns = `id, bundle_id, url, title, description, image, sort_order`

const bundleColumns = `id, user_id, vanity_url, title, description, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBundle(row rowScanner) (*models.Bundle, error) {
	var b models.Bundle
	if err := row.Scan(&b.ID, &b.UserID, &b.VanityURL, &b.Title, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Links = []models.Link{}
	return &b, nil
}

func now() time.Time {
	return time.Now().UTC()
}

// CreateBundle inserts a bundle and its links in one transaction.
func (d *DB) CreateBundle(ctx context.Context, in NewBundle) (*models.Bundle, error) {
	ts := now()
	bundle := &models.Bundle{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		VanityURL:   in.VanityURL,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO link_bundles (`+bundleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			bundle.ID, bundle.UserID, bundle.VanityURL, bundle.Title, bundle.Description, ts, ts)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrVanityTaken
			}
			return fmt.Errorf("failed to insert bundle: %w", err)
		}
		links, err := insertLinks(ctx, tx, bundle.ID, in.Links, 0)
		if err != nil {
			return err
		}
		bundle.Links = links
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrVanityTaken) {
			d.logger.Error().Err(err).Str("vanity_url", in.VanityURL).Msg("Failed to create bundle")
		}
		return nil, err
	}

	d.logger.Info().Str("bundle_id", bundle.ID).Str("vanity_url", bundle.VanityURL).Int("links", len(bundle.Links)).Msg("Created bundle")
	return bundle, nil
}

func insertLinks(ctx context.Context, tx *sql.Tx, bundleID string, inputs []models.LinkInput, firstOrder int) ([]models.Link, error) {
	links := make([]models.Link, 0, len(inputs))
	for i, in := range inputs {
		link := models.Link{
			ID:          uuid.NewString(),
			BundleID:    bundleID,
			URL:         in.URL,
			Title:       in.Title,
			Description: in.Description,
			Image:       in.Image,
			SortOrder:   firstOrder + i,
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO links (id, bundle_id, url, title, description, image, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			link.ID, link.BundleID, link.URL, link.Title, link.Description, link.Image, link.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to insert link %d: %w", i, err)
		}
		links = append(links, link)
	}
	return links, nil
}

// GetBundleByVanity returns the bundle published under vanity with its links in sort order.
func (d *DB) GetBundleByVanity(ctx context.Context, vanity string) (*models.Bundle, error) {
	return d.getBundle(ctx, `SELECT `+bundleColumns+` FROM link_bundles WHERE vanity_url = ?`, vanity)
}

// GetBundle returns the bundle with the given id.
func (d *DB) GetBundle(ctx context.Context, id string) (*models.Bundle, error) {
	return d.getBundle(ctx, `SELECT `+bundleColumns+` FROM link_bundles WHERE id = ?`, id)
}

func (d *DB) getBundle(ctx context.Context, query string, arg string) (*models.Bundle, error) {
	bundle, err := scanBundle(d.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query bundle: %w", err)
	}
	if bundle.Links, err = d.linksFor(ctx, bundle.ID); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (d *DB) linksFor(ctx context.Context, bundleID string) ([]models.Link, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE bundle_id = ? ORDER BY sort_order ASC`,
		bundleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := []models.Link{}
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.BundleID, &l.URL, &l.Title, &l.Description, &l.Image, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// ListBundlesByUser returns the user's bundles, newest first.
func (d *DB) ListBundlesByUser(ctx context.Context, userID string) ([]models.Bundle, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+bundleColumns+` FROM link_bundles WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundles: %w", err)
	}

	bundles := []models.Bundle{}
	for rows.Next() {
		b, err := scanBundle(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bundle: %w", err)
		}
		bundles = append(bundles, *b)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// Links are loaded after the cursor closes; the pool holds one connection.
	for i := range bundles {
		if bundles[i].Links, err = d.linksFor(ctx, bundles[i].ID); err != nil {
			return nil, err
		}
	}
	return bundles, nil
}

// UpdateBundle applies upd to the bundle with the given id and returns the result.
func (d *DB) UpdateBundle(ctx context.Context, id string, upd BundleUpdate) (*models.Bundle, error) {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE link_bundles SET title = COALESCE(?, title), description = COALESCE(?, description), updated_at = ? WHERE id = ?`,
			nullable(upd.Title), nullable(upd.Description), now(), id)
		if err != nil {
			return fmt.Errorf("failed to update bundle: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if upd.Links == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE bundle_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear links: %w", err)
		}
		_, err = insertLinks(ctx, tx, id, *upd.Links, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info().Str("bundle_id", id).Bool("links_replaced", upd.Links != nil).Msg("Updated bundle")
	return d.GetBundle(ctx, id)
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// DeleteBundle removes the bundle; its links go with it.
func (d *DB) DeleteBundle(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM link_bundles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	d.logger.Info().Str("bundle_id", id).Msg("Deleted bundle")
	return nil
}

// AddLink appends a link after the bundle's current last link.
func (d *DB) AddLink(ctx context.Context, bundleID string, in models.LinkInput) (*models.Link, error) {
	var link models.Link
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM links WHERE bundle_id = ?`, bundleID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to compute sort order: %w", err)
		}
		if err := touchBundle(ctx, tx, bundleID); err != nil {
			return err
		}
		links, err := insertLinks(ctx, tx, bundleID, []models.LinkInput{in}, next)
		if err != nil {
			return err
		}
		link = links[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateLink applies upd to one link of the bundle and returns the result.
func (d *DB) UpdateLink(ctx context.Context, bundleID, linkID string, upd LinkUpdate) (*models.Link, error) {
	var link models.Link
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE links SET url = COALESCE(?, url), title = COALESCE(?, title),
				description = COALESCE(?, description), image = COALESCE(?, image)
			WHERE id = ? AND bundle_id = ?`,
			nullable(upd.URL), nullable(upd.Title), nullable(upd.Description), nullable(upd.Image), linkID, bundleID)
		if err != nil {
			return fmt.Errorf("failed to update link: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrLinkNotFound
		}
		if err := touchBundle(ctx, tx, bundleID); err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, linkID).
			Scan(&link.ID, &link.BundleID, &link.URL, &link.Title, &link.Description, &link.Image, &link.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to reload link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info().Str("bundle_id", bundleID).Str("link_id", linkID).Msg("Updated link")
	return &link, nil
}

// DeleteLink removes one link of the bundle. The remaining links keep their order.
func (d *DB) DeleteLink(ctx context.Context, bundleID, linkID string) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM links WHERE id = ? AND bundle_id = ?`, linkID, bundleID)
		if err != nil {
			return fmt.Errorf("failed to delete link: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrLinkNotFound
		}
		return touchBundle(ctx, tx, bundleID)
	})
	if err != nil {
		return err
	}
	d.logger.Info().Str("bundle_id", bundleID).Str("link_id", linkID).Msg("Deleted link")
	return nil
}

func touchBundle(ctx context.Context, tx *sql.Tx, bundleID string) error {
	res, err := tx.ExecContext(ctx, `UPDATE link_bundles SET updated_at = ? WHERE id = ?`, now(), bundleID)
	if err != nil {
		return fmt.Errorf("failed to touch bundle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsVanityAvailable reports whether vanity is unused, ignoring the bundle excludeID.
func (d *DB) IsVanityAvailable(ctx context.Context, vanity, excludeID string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM link_bundles WHERE vanity_url = ? AND id != ?`, vanity, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check vanity URL: %w", err)
	}
	return count == 0, nil
}
