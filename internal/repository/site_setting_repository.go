package repository

import (
	"context"
	"database/sql"

	"github.com/driveease/car-rental-api/internal/model"
)

// SiteSettingRepo reads and writes the single site_settings row (id = 1).
type SiteSettingRepo struct{ db *sql.DB }

func NewSiteSettingRepo(db *sql.DB) *SiteSettingRepo { return &SiteSettingRepo{db: db} }

// Get returns the settings row.  A missing row yields zero-value settings
// rather than an error so the public site renders before the operator has
// filled anything in.
func (r *SiteSettingRepo) Get(ctx context.Context) (model.SiteSetting, error) {
	var s model.SiteSetting
	err := r.db.QueryRowContext(ctx,
		"SELECT id, contact_email, contact_phone, address FROM site_settings WHERE id=1").
		Scan(&s.ID, &s.ContactEmail, &s.ContactPhone, &s.Address)
	if err == sql.ErrNoRows {
		return model.SiteSetting{ID: 1}, nil
	}
	return s, err
}

// Update upserts the settings row.
func (r *SiteSettingRepo) Update(ctx context.Context, s model.SiteSetting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO site_settings (id, contact_email, contact_phone, address)
		 VALUES (1,?,?,?)
		 ON DUPLICATE KEY UPDATE contact_email=VALUES(contact_email),
		                         contact_phone=VALUES(contact_phone),
		                         address=VALUES(address)`,
		s.ContactEmail, s.ContactPhone, s.Address)
	return err
}
