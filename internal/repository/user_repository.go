package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/driveease/car-rental-api/internal/model"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, email, password_hash, role, full_name, phone, is_active, is_email_verified, date_joined"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
    var u model.User
    var role string
    err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role,
        &u.FullName, &u.Phone, &u.IsActive, &u.IsEmailVerified, &u.DateJoined)
    if err != nil {
        return model.User{}, err
    }
    if r, ok := model.ParseRole(role); ok {
        u.Role = r
    } else {
        u.Role = model.RoleCustomer
    }
    return u, nil
}

// Create inserts a verified user row and returns its ID.  The caller
// supplies an already-hashed password; verification happened against the
// parked OTP before this point, so rows land here verified.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO users (username, email, password_hash, role, full_name, phone, is_active, is_email_verified)
         VALUES (?,?,?,?,?,?,?,?)`,
        u.Username, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash,
        string(u.Role), u.FullName, u.Phone, true, u.IsEmailVerified)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
    return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
    return scanUser(row)
}

// UpdateProfile updates the mutable profile fields.  An empty
// passwordHash leaves the stored password untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phone, passwordHash string) error {
    if passwordHash == "" {
        _, err := r.DB.ExecContext(ctx,
            "UPDATE users SET full_name=?, phone=? WHERE id=?", fullName, phone, id)
        return err
    }
    _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET full_name=?, phone=?, password_hash=? WHERE id=?",
        fullName, phone, passwordHash, id)
    return err
}

// UpdatePassword replaces the password hash for the account with the
// given email.  Used by the OTP-verified reset flow.
func (r *UserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
    email = strings.ToLower(strings.TrimSpace(email))
    res, err := r.DB.ExecContext(ctx,
        "UPDATE users SET password_hash=? WHERE email=?", passwordHash, email)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// ListCustomers returns all Customer-role accounts, newest first.
func (r *UserRepo) ListCustomers(ctx context.Context) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+userCols+" FROM users WHERE role=? ORDER BY date_joined DESC",
        string(model.RoleCustomer))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    users := make([]model.User, 0)
    for rows.Next() {
        u, err := scanUser(rows)
        if err != nil {
            return nil, err
        }
        users = append(users, u)
    }
    return users, rows.Err()
}

// CountCustomers returns the number of Customer-role accounts; shown on
// the admin dashboard.
func (r *UserRepo) CountCustomers(ctx context.Context) (int, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM users WHERE role=?", string(model.RoleCustomer)).Scan(&n)
    return n, err
}
