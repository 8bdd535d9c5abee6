package repositories

import (
	"StaffRankService/internal/models/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const staffColumns = `id, name,
	COALESCE(department, 'Not Assigned') AS department,
	COALESCE(designation, 'Not Specified') AS designation,
	COALESCE(role_category, 'Not Categorized') AS role_category`

// ListActiveStaff returns all active staff members, optionally restricted
// to one department. The "Not Assigned" sentinel matches staff without a
// department; "All" or empty means no filter. Ordering by name then id
// fixes the retrieval order used for rank tie-breaking.
func (r *Repository) ListActiveStaff(ctx context.Context, department string) ([]domain.StaffMember, error) {
	op := "Repository.ListActiveStaff"

	query := fmt.Sprintf(`SELECT %s FROM staff WHERE employment_status = 'Active'`, staffColumns)
	var args []interface{}

	switch department {
	case "", domain.DepartmentFilterAll:
		// no filter
	case domain.DeptNotAssigned:
		query += ` AND department IS NULL`
	default:
		query += ` AND department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY name, id`

	var staff []domain.StaffMember
	if err := r.DB.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}
	return staff, nil
}

// GetStaffByID returns one active staff member.
func (r *Repository) GetStaffByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error) {
	op := "Repository.GetStaffByID"

	query := fmt.Sprintf(`SELECT %s FROM staff WHERE id = $1 AND employment_status = 'Active'`, staffColumns)

	var s domain.StaffMember
	if err := r.DB.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrStaffNotFound)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}
	return &s, nil
}

// ListDepartments returns the distinct department names of active staff,
// with NULL reported as the "Not Assigned" sentinel.
func (r *Repository) ListDepartments(ctx context.Context) ([]string, error) {
	op := "Repository.ListDepartments"

	query := `SELECT DISTINCT COALESCE(department, 'Not Assigned')
		FROM staff WHERE employment_status = 'Active' ORDER BY 1`

	var departments []string
	if err := r.DB.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}
	return departments, nil
}
