package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/utils"
)

const userColumns = "id, username, email, password_hash, role, first_name, last_name, is_active, created_at, updated_at"

// UserRepo encapsulates all database queries against the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserPatch carries the fields an update may change. Nil pointers leave the
// stored value untouched. A non-nil Password is re-hashed before storage.
type UserPatch struct {
	Email     *string
	Password  *string
	Role      *string
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// Create hashes the password and inserts the user, populating u.ID.
// A taken username or email yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, first_name, last_name, is_active) VALUES (?,?,?,?,?,?,1)",
		u.Username, u.Email, hash, u.Role, u.FirstName, u.LastName)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.IsActive = true
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM users WHERE id=?", u.ID).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByUsername fetches a user by normalized username, hash included. Only
// the login path should call this; everything else reads via GetByID/List
// where the hash is never serialized.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getWhere(ctx, "username=?", strings.ToLower(strings.TrimSpace(username)))
}

// GetByEmail fetches a user by normalized email, hash included.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getWhere(ctx, "email=?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+cond+" LIMIT 1", arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

// List returns all users ordered by creation time, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]model.User, 0, 16)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Update applies a patch to the user. Absent fields keep their stored
// values; a new password is hashed before storage. Returns ErrNotFound when
// the id does not exist and ErrConflict when a new email is already taken.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UserPatch, cost int) error {
	set := []string{}
	args := []any{}
	if p.Email != nil {
		set = append(set, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.Password != nil {
		hash, err := utils.HashPassword(*p.Password, cost)
		if err != nil {
			return err
		}
		set = append(set, "password_hash=?")
		args = append(args, hash)
	}
	if p.Role != nil {
		set = append(set, "role=?")
		args = append(args, *p.Role)
	}
	if p.FirstName != nil {
		set = append(set, "first_name=?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		set = append(set, "last_name=?")
		args = append(args, *p.LastName)
	}
	if p.IsActive != nil {
		set = append(set, "is_active=?")
		args = append(args, *p.IsActive)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a user by clearing is_active. This is the default
// removal path; ledger rows that reference the user stay valid.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	active := false
	return r.Update(ctx, id, UserPatch{IsActive: &active}, 0)
}

// Delete hard-removes a user row.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureDefaultAdmin creates the well-known admin account if no account with
// that username exists. Idempotent under concurrent invocation: the insert
// simply runs and a duplicate-key rejection from the unique constraint is
// treated as success.
func (r *UserRepo) EnsureDefaultAdmin(ctx context.Context, username, email, password string, cost int) error {
	u := model.User{
		Username:  username,
		Email:     email,
		Role:      model.RoleAdmin,
		FirstName: "Default",
		LastName:  "Admin",
	}
	if u.Email == "" {
		u.Email = u.Username + "@localhost"
	}
	err := r.Create(ctx, &u, password, cost)
	if err == ErrConflict {
		return nil // already seeded
	}
	return err
}
