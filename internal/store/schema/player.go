package schema

import "time"

// Player represents the players table - one known roster entry on the
// ozfortress site, keyed by the site's sequential user id.
type Player struct {
	// RosterID is the sequential id assigned by the ozfortress site
	RosterID int64 `gorm:"column:roster_id;primaryKey"`
	// SteamID64 is the canonical 64-bit account identifier; nil until the
	// profile links a Steam account. Once set it is never cleared, only
	// replaced by a non-null value.
	SteamID64 *int64 `gorm:"column:steamid64;uniqueIndex"`
	// DisplayName is the scraped profile name; never empty once stored
	// (callers fall back to a synthesized placeholder)
	DisplayName string `gorm:"column:display_name;not null;type:text"`
	// ProfileURL is the ozfortress profile page URL
	ProfileURL *string `gorm:"column:profile_url;type:text"`
	// SteamProfileURL is the derived steamcommunity profile URL
	SteamProfileURL *string `gorm:"column:steam_profile_url;type:text"`
	// CreatedAt is set once on first successful probe
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is refreshed on every probe that finds data
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
	// LastCheckedAt records the most recent probe touch
	LastCheckedAt time.Time `gorm:"column:last_checked_at;not null;default:now()"`
}

// TableName specifies the table name for the Player model
func (Player) TableName() string {
	return "players"
}
