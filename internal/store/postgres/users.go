package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const userColumns = `id, company_id, name, email, role, is_active, password_hash, created_at`

func scanUser(row scannable) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.Role, &u.Active, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1) AND is_active = TRUE
	`, email))
	if err != nil {
		return models.User{}, wrap(err, "get user by email")
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, companyID, userID string) (models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND company_id = $2
	`, userID, companyID))
	if err != nil {
		return models.User{}, wrap(err, "get user")
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, companyID string) ([]models.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE company_id = $1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list users")
	}
	users, err := collect(rows, scanUser)
	return users, wrap(err, "list users")
}

func (s *Store) Signup(ctx context.Context, params store.SignupParams) (models.User, models.Company, error) {
	var (
		user    models.User
		company models.Company
	)
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var taken bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))
		`, params.Email).Scan(&taken); err != nil {
			return wrap(err, "check email")
		}
		if taken {
			return store.ErrEmailTaken
		}

		created := false
		var err error
		company, err = scanCompany(tx.QueryRow(ctx, `
			SELECT `+companyColumns+`
			FROM companies
			WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL
		`, params.CompanyName))
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			company, err = scanCompany(tx.QueryRow(ctx, `
				INSERT INTO companies (id, name)
				VALUES ($1, $2)
				RETURNING `+companyColumns,
				uuid.NewString(), params.CompanyName))
			if err != nil {
				return wrap(err, "create company")
			}
			created = true
		case err != nil:
			return wrap(err, "find company")
		}

		// The first user of a new company administers it.
		role := authz.RoleMember
		if created {
			role = authz.RoleAdmin
		}
		user, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users (id, company_id, name, email, password_hash, role)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumns,
			uuid.NewString(), company.ID, params.Name, params.Email, params.PasswordHash, role))
		if err != nil {
			err = wrap(err, "create user")
			if errors.Is(err, store.ErrDuplicate) {
				// A concurrent signup won the race on the email index.
				return fmt.Errorf("create user: %w", store.ErrEmailTaken)
			}
			return err
		}

		if created {
			if _, err := tx.Exec(ctx, `
				UPDATE companies SET created_by = $1 WHERE id = $2
			`, user.ID, company.ID); err != nil {
				return wrap(err, "set company owner")
			}
			company.CreatedBy = &user.ID
		}
		return nil
	})
	if err != nil {
		return models.User{}, models.Company{}, err
	}
	return user, company, nil
}
