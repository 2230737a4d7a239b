// Package repository implements the append-only audit record store for
// PostgreSQL and MySQL. There are deliberately no update or delete paths.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	"github.com/riskforge/compliance/internal/database"
	apperrors "github.com/riskforge/compliance/internal/errors"
)

// PostgreSQLAuditRecordRepository implements AuditRecord persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLAuditRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRecordRepository creates a new PostgreSQL AuditRecord repository.
func NewPostgreSQLAuditRecordRepository(db *sql.DB) *PostgreSQLAuditRecordRepository {
	return &PostgreSQLAuditRecordRepository{db: db}
}

// Create appends a new AuditRecord. Handles an empty detail map as database
// NULL. Returns an error if detail marshaling or the insert fails.
func (p *PostgreSQLAuditRecordRepository) Create(
	ctx context.Context,
	record *auditDomain.AuditRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	detailsJSON, err := marshalDetails(record.Details)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_records
			  (id, actor, tenant, action, resource_type, resource_id, details,
			   ip_address, user_agent, created_at, signature)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
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
func (p *PostgreSQLAuditRecordRepository) List(
	ctx context.Context,
	tenant string,
	filters *auditDomain.QueryFilters,
) ([]*auditDomain.AuditRecord, error) {
	querier := database.GetTx(ctx, p.db)

	if filters == nil {
		filters = &auditDomain.QueryFilters{}
	}

	var conditions []string
	var args []any

	addCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	addCondition("tenant", tenant)
	if filters.Actor != "" {
		addCondition("actor", filters.Actor)
	}
	if filters.Action != "" {
		addCondition("action", filters.Action)
	}
	if filters.ResourceType != "" {
		addCondition("resource_type", filters.ResourceType)
	}
	if filters.CreatedAtFrom != nil {
		args = append(args, *filters.CreatedAtFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filters.CreatedAtTo != nil {
		args = append(args, *filters.CreatedAtTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT id, actor, tenant, action, resource_type, resource_id, details,
			  ip_address, user_agent, created_at, signature
			  FROM audit_records
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY created_at DESC`

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAuditRecords(rows)
}

// marshalDetails serializes a non-empty detail map, mapping empty to NULL.
func marshalDetails(details map[string]any) ([]byte, error) {
	if len(details) == 0 {
		return nil, nil
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit record details")
	}
	return detailsJSON, nil
}

// scanAuditRecords reads all rows into records, unmarshaling NULL details as
// a nil map.
func scanAuditRecords(rows *sql.Rows) ([]*auditDomain.AuditRecord, error) {
	records := make([]*auditDomain.AuditRecord, 0)
	for rows.Next() {
		var record auditDomain.AuditRecord
		var detailsJSON []byte

		err := rows.Scan(
			&record.ID,
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
