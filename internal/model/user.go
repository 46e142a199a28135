package model

import "time"

// Role is the closed set of account roles.  The value is stored verbatim
// in the `users.role` column; use ParseRole when reading untrusted input
// so that unknown strings never masquerade as a valid role.
type Role string

const (
    RoleCustomer Role = "Customer" // regular renter account
    RoleAdmin    Role = "Admin"    // back-office operator
)

// ParseRole maps a raw string onto the Role enumeration.  The boolean is
// false for any string outside the closed set.
func ParseRole(s string) (Role, bool) {
    switch Role(s) {
    case RoleCustomer:
        return RoleCustomer, true
    case RoleAdmin:
        return RoleAdmin, true
    }
    return "", false
}

// User represents an application account as stored in the `users` table.
// Passwords are kept only as bcrypt hashes.  Registration parks the
// candidate account outside this table until the emailed OTP is verified,
// so every row here belongs to a verified (or operator-created) account
// unless IsEmailVerified says otherwise.
//
// Fields:
//  ID              – primary key identifier.
//  Username        – display name chosen at registration.
//  Email           – unique email address (stored lower-cased).
//  PasswordHash    – bcrypt hash of the password.
//  Role            – account role (Customer or Admin).
//  FullName        – optional full name.
//  Phone           – optional phone number.
//  IsActive        – whether the account may log in.
//  IsEmailVerified – whether the registration OTP was completed.
//  DateJoined      – timestamp of account creation.
type User struct {
    ID              uint64    // users.id
    Username        string    // users.username
    Email           string    // users.email
    PasswordHash    string    // users.password_hash
    Role            Role      // users.role
    FullName        string    // users.full_name
    Phone           string    // users.phone
    IsActive        bool      // users.is_active
    IsEmailVerified bool      // users.is_email_verified
    DateJoined      time.Time // users.date_joined
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored; the raw token is returned to
// the client exactly once.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
