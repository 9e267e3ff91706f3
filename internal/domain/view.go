package domain

import "time"

// Device info labels recorded with a card view.
const (
	DeviceInfoVCard = "vCard Generated"
	DeviceInfoWeb   = "Web Page View"
)

// CardView is one row of the view-tracking sink (card_views table).
// Writes are fire-and-forget; this record is best-effort analytics, never
// part of a request's success path.
type CardView struct {
	ID         string    `json:"id,omitempty"`
	CardID     string    `json:"card_id"`
	ViewerIP   string    `json:"viewer_ip,omitempty"`
	DeviceInfo string    `json:"device_info,omitempty"`
	ViewedAt   time.Time `json:"viewed_at,omitempty"`
}
