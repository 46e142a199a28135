package model

import "time"

// Notification is a short message shown to a customer in the app.  The
// queue consumer creates one per confirmed booking; admins can create
// them manually.  Listing a user's notifications marks them read.
type Notification struct {
    ID       uint64    // notifications.id
    UserID   uint64    // notifications.user_id
    Message  string    // notifications.message
    IsRead   bool      // notifications.is_read
    DateSent time.Time // notifications.date_sent
}

// SiteSetting is the single row (id = 1) of operator-editable contact
// details shown on the public site.
type SiteSetting struct {
    ID           uint64 // site_settings.id
    ContactEmail string // site_settings.contact_email
    ContactPhone string // site_settings.contact_phone
    Address      string // site_settings.address
}
