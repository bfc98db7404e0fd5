package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

// Nested documents (condition reports, damage assessment, insurance, code
// state) live in jsonb columns; the flat money/state fields that queries
// filter on are proper columns.
const rentalColumns = `id, product_id, renter_id, owner_id, start_date, end_date, actual_return_date,
	status, rental_amount_cents, security_deposit_cents, total_paid_cents,
	handover_code, return_code, condition_at_handover, condition_at_return,
	damage, insurance, deposit_refunded, deposit_refund_amount_cents,
	dispute_raised, COALESCE(cancellation_reason, ''), COALESCE(notes, ''), created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (product_id, renter_id, owner_id, start_date, end_date, status,
	            rental_amount_cents, security_deposit_cents, total_paid_cents,
	            handover_code, return_code, damage, insurance, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14) RETURNING id, created_on, updated_on`
	return r.db.QueryRowContext(ctx, query,
		rt.ProductID, rt.RenterID, rt.OwnerID, rt.StartDate, rt.EndDate, rt.Status,
		rt.RentalAmountCents, rt.SecurityDepositCents, rt.TotalPaidCents,
		mustJSON(rt.HandoverCode), mustJSON(rt.ReturnCode), mustJSON(rt.Damage), mustJSON(rt.Insurance),
		time.Now(),
	).Scan(&rt.ID, &rt.CreatedOn, &rt.UpdatedOn)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id)
	rt, err := scanRental(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound("rental %d not found", id)
		}
		return nil, err
	}

	charges, err := r.listCharges(ctx, id)
	if err != nil {
		return nil, err
	}
	rt.AdditionalCharges = charges
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, actual_return_date=$2,
	            handover_code=$3, return_code=$4, condition_at_handover=$5, condition_at_return=$6,
	            damage=$7, insurance=$8, deposit_refunded=$9, deposit_refund_amount_cents=$10,
	            dispute_raised=$11, cancellation_reason=$12, notes=$13, updated_on=$14
	          WHERE id=$15`
	_, err := r.db.ExecContext(ctx, query,
		rt.Status, rt.ActualReturnDate,
		mustJSON(rt.HandoverCode), mustJSON(rt.ReturnCode),
		nullableJSON(rt.ConditionAtHandover), nullableJSON(rt.ConditionAtReturn),
		mustJSON(rt.Damage), mustJSON(rt.Insurance),
		rt.DepositRefunded, rt.DepositRefundAmountCents,
		rt.DisputeRaised, rt.CancellationReason, rt.Notes, time.Now(), rt.ID)
	return err
}

func (r *rentalRepository) ListByParticipant(ctx context.Context, userID int32, role repository.RentalRole, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE `

	var args []interface{}
	switch role {
	case repository.RentalRoleRenter:
		query += "renter_id = $1"
		args = append(args, userID)
	case repository.RentalRoleOwner:
		query += "owner_id = $1"
		args = append(args, userID)
	default:
		query += "(renter_id = $1 OR owner_id = $1)"
		args = append(args, userID)
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) AddCharge(ctx context.Context, charge *domain.AdditionalCharge) error {
	query := `INSERT INTO rental_charges (rental_id, type, amount_cents, description, paid, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		charge.RentalID, charge.Type, charge.AmountCents, charge.Description, charge.Paid, time.Now(),
	).Scan(&charge.ID)
}

func (r *rentalRepository) listCharges(ctx context.Context, rentalID int32) ([]domain.AdditionalCharge, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, rental_id, type, amount_cents, COALESCE(description, ''), paid, created_on
	                                     FROM rental_charges WHERE rental_id = $1 ORDER BY id`, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.AdditionalCharge
	for rows.Next() {
		var c domain.AdditionalCharge
		if err := rows.Scan(&c.ID, &c.RentalID, &c.Type, &c.AmountCents, &c.Description, &c.Paid, &c.CreatedOn); err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var (
		handoverCode, returnCode, damage, insurance []byte
		condHandover, condReturn                    []byte
	)
	err := row.Scan(&rt.ID, &rt.ProductID, &rt.RenterID, &rt.OwnerID,
		&rt.StartDate, &rt.EndDate, &rt.ActualReturnDate,
		&rt.Status, &rt.RentalAmountCents, &rt.SecurityDepositCents, &rt.TotalPaidCents,
		&handoverCode, &returnCode, &condHandover, &condReturn,
		&damage, &insurance, &rt.DepositRefunded, &rt.DepositRefundAmountCents,
		&rt.DisputeRaised, &rt.CancellationReason, &rt.Notes, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}

	if err := fromJSON(handoverCode, &rt.HandoverCode); err != nil {
		return nil, err
	}
	if err := fromJSON(returnCode, &rt.ReturnCode); err != nil {
		return nil, err
	}
	if err := fromJSON(damage, &rt.Damage); err != nil {
		return nil, err
	}
	if err := fromJSON(insurance, &rt.Insurance); err != nil {
		return nil, err
	}
	if len(condHandover) > 0 {
		rt.ConditionAtHandover = &domain.ConditionReport{}
		if err := json.Unmarshal(condHandover, rt.ConditionAtHandover); err != nil {
			return nil, err
		}
	}
	if len(condReturn) > 0 {
		rt.ConditionAtReturn = &domain.ConditionReport{}
		if err := json.Unmarshal(condReturn, rt.ConditionAtReturn); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal %T: %v", v, err))
	}
	return b
}

func nullableJSON(v *domain.ConditionReport) interface{} {
	if v == nil {
		return nil
	}
	return mustJSON(v)
}

func fromJSON(data []byte, dst interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
