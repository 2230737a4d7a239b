package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	"github.com/riskforge/compliance/internal/database"
	apperrors "github.com/riskforge/compliance/internal/errors"
)

// MySQLAuditRecordRepository implements AuditRecord persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditRecordRepository struct {
	db *sql.DB
}

// NewMySQLAuditRecordRepository creates a new MySQL AuditRecord repository.
func NewMySQLAuditRecordRepository(db *sql.DB) *MySQLAuditRecordRepository {
	return &MySQLAuditRecordRepository{db: db}
}

// Create appends a new AuditRecord using BINARY(16) for the UUID. Handles an
// empty detail map as database NULL.
func (m *MySQLAuditRecordRepository) Create(
	ctx context.Context,
	record *auditDomain.AuditRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	detailsJSON, err := marshalDetails(record.Details)
	if err != nil {
		return err
	}

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit record id")
	}

	query := `INSERT INTO audit_records
			  (id, actor, tenant, action, resource_type, resource_id, details,
			   ip_address, user_agent, created_at, signature)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.Actor,
		record.Tenant,
		record.Action,
		record.ResourceType,
		record.ResourceID,
		detailsJSON,
		record.IPAddress,
		record.UserAgent,
		record.CreatedAt,
		record.Signature,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit record")
	}

	return nil
}

// List retrieves a tenant's records matching the filters, newest first.
// A Limit <= 0 means no limit. Returns an empty slice when nothing matches.
func (m *MySQLAuditRecordRepository) List(
	ctx context.Context,
	tenant string,
	filters *auditDomain.QueryFilters,
) ([]*auditDomain.AuditRecord, error) {
	querier := database.GetTx(ctx, m.db)

	if filters == nil {
		filters = &auditDomain.QueryFilters{}
	}

	conditions := []string{"tenant = ?"}
	args := []any{tenant}

	if filters.Actor != "" {
		conditions = append(conditions, "actor = ?")
		args = append(args, filters.Actor)
	}
	if filters.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filters.Action)
	}
	if filters.ResourceType != "" {
		conditions = append(conditions, "resource_type = ?")
		args = append(args, filters.ResourceType)
	}
	if filters.CreatedAtFrom != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filters.CreatedAtFrom)
	}
	if filters.CreatedAtTo != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *filters.CreatedAtTo)
	}

	query := `SELECT id, actor, tenant, action, resource_type, resource_id, details,
			  ip_address, user_agent, created_at, signature
			  FROM audit_records
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY created_at DESC`

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filters.Offset)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*auditDomain.AuditRecord, 0)
	for rows.Next() {
		var record auditDomain.AuditRecord
		var id []byte
		var detailsJSON []byte

		err := rows.Scan(
			&id,
			&record.Actor,
			&record.Tenant,
			&record.Action,
			&record.ResourceType,
			&record.ResourceID,
			&detailsJSON,
			&record.IPAddress,
			&record.UserAgent,
			&record.CreatedAt,
			&record.Signature,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit record")
		}

		if err := record.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit record id")
		}

		if detailsJSON != nil {
			if err := json.Unmarshal(detailsJSON, &record.Details); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit record details")
			}
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}

	return records, nil
}
