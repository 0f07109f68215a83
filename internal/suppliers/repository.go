package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian/internal/platform/db"
)

// Repository is durable storage for supplier aggregates. Add and Remove
// persist or delete the supplier together with its owned email and phone
// collections.
type Repository interface {
	FindAll(ctx context.Context) ([]Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (Supplier, error)
	Add(ctx context.Context, supplier Supplier) error
	Remove(ctx context.Context, supplier Supplier) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const uniqueViolationCode = "23505"

func (r *repository) FindAll(ctx context.Context) ([]Supplier, error) {
	const query = `SELECT id, title, first_name, last_name, activation_date FROM suppliers ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}
	defer rows.Close()

	var out []Supplier
	ids := make([]uuid.UUID, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Title, &s.FirstName, &s.LastName, &s.ActivationDate); err != nil {
			return nil, fmt.Errorf("suppliers: scan: %w", err)
		}
		s.Emails = []Email{}
		s.Phones = []Phone{}
		index[s.ID] = len(out)
		ids = append(ids, s.ID)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}
	if len(out) == 0 {
		return []Supplier{}, nil
	}

	// The two child collections are independent, load them in parallel.
	var (
		emails map[uuid.UUID][]Email
		phones map[uuid.UUID][]Phone
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emails, err = r.loadEmails(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		phones, err = r.loadPhones(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for id, i := range index {
		if e, ok := emails[id]; ok {
			out[i].Emails = e
		}
		if p, ok := phones[id]; ok {
			out[i].Phones = p
		}
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (Supplier, error) {
	const query = `SELECT id, title, first_name, last_name, activation_date FROM suppliers WHERE id = $1`

	var s Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Title, &s.FirstName, &s.LastName, &s.ActivationDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, ErrNotFound
	}
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get %s: %w", id, err)
	}

	emails, err := r.loadEmails(ctx, []uuid.UUID{id})
	if err != nil {
		return Supplier{}, err
	}
	phones, err := r.loadPhones(ctx, []uuid.UUID{id})
	if err != nil {
		return Supplier{}, err
	}
	s.Emails = emails[id]
	if s.Emails == nil {
		s.Emails = []Email{}
	}
	s.Phones = phones[id]
	if s.Phones == nil {
		s.Phones = []Phone{}
	}
	return s, nil
}

func (r *repository) Add(ctx context.Context, supplier Supplier) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertSupplier = `INSERT INTO suppliers (id, title, first_name, last_name, activation_date) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, insertSupplier, supplier.ID, supplier.Title, supplier.FirstName, supplier.LastName, supplier.ActivationDate); err != nil {
			return err
		}

		const insertEmail = `INSERT INTO supplier_emails (id, supplier_id, email_address, is_preferred) VALUES ($1, $2, $3, $4)`
		for _, email := range supplier.Emails {
			if _, err := tx.Exec(ctx, insertEmail, email.ID, supplier.ID, email.EmailAddress, email.IsPreferred); err != nil {
				return err
			}
		}

		const insertPhone = `INSERT INTO supplier_phones (id, supplier_id, phone_number, is_preferred) VALUES ($1, $2, $3, $4)`
		for _, phone := range supplier.Phones {
			if _, err := tx.Exec(ctx, insertPhone, phone.ID, supplier.ID, phone.PhoneNumber, phone.IsPreferred); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateID
		}
		return fmt.Errorf("suppliers: add %s: %w", supplier.ID, err)
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, supplier Supplier) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM supplier_emails WHERE supplier_id = $1`, supplier.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM supplier_phones WHERE supplier_id = $1`, supplier.ID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, supplier.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("suppliers: remove %s: %w", supplier.ID, err)
	}
	return nil
}

func (r *repository) loadEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Email, error) {
	const query = `SELECT id, supplier_id, email_address, is_preferred FROM supplier_emails WHERE supplier_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("suppliers: load emails: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]Email)
	for rows.Next() {
		var (
			e       Email
			ownerID uuid.UUID
		)
		if err := rows.Scan(&e.ID, &ownerID, &e.EmailAddress, &e.IsPreferred); err != nil {
			return nil, fmt.Errorf("suppliers: scan email: %w", err)
		}
		out[ownerID] = append(out[ownerID], e)
	}
	return out, rows.Err()
}

func (r *repository) loadPhones(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Phone, error) {
	const query = `SELECT id, supplier_id, phone_number, is_preferred FROM supplier_phones WHERE supplier_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("suppliers: load phones: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]Phone)
	for rows.Next() {
		var (
			p       Phone
			ownerID uuid.UUID
		)
		if err := rows.Scan(&p.ID, &ownerID, &p.PhoneNumber, &p.IsPreferred); err != nil {
			return nil, fmt.Errorf("suppliers: scan phone: %w", err)
		}
		out[ownerID] = append(out[ownerID], p)
	}
	return out, rows.Err()
}
