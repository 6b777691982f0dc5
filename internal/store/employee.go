package store

import (
	"database/sql"
	"fmt"

	"github.com/calebwray/kudos/internal/model"
)

// EmployeeStore is the identity-lookup collaborator: the engine only reads
// the eligibility-relevant fields from it.
type EmployeeStore struct {
	db dbtx
}

func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

func (s *EmployeeStore) WithTx(tx *sql.Tx) *EmployeeStore {
	return &EmployeeStore{db: tx}
}

func scanEmployee(scanner interface{ Scan(...any) error }) (*model.Employee, error) {
	var e model.Employee
	var role, employment string
	var active int

	err := scanner.Scan(&e.ID, &e.Name, &role, &e.Department, &employment, &active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Role = model.ParseRole(role)
	e.EmploymentType = model.ParseEmploymentType(employment)
	e.Active = active != 0
	return &e, nil
}

const employeeCols = `id, name, role, department, employment_type, active, created_at, updated_at`

func (s *EmployeeStore) Create(name string, role model.Role, department string, employment model.EmploymentType) (*model.Employee, error) {
	result, err := s.db.Exec(
		`INSERT INTO employees (name, role, department, employment_type) VALUES (?, ?, ?, ?)`,
		name, string(role), department, string(employment),
	)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EmployeeStore) GetByID(id int64) (*model.Employee, error) {
	row := s.db.QueryRow(`SELECT `+employeeCols+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *EmployeeStore) List() ([]model.Employee, error) {
	rows, err := s.db.Query(`SELECT ` + employeeCols + ` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// Update rewrites the mutable identity fields. Role, department, and
// employment type change over tenure, which is why eligibility re-checks on
// every submission.
func (s *EmployeeStore) Update(id int64, name string, role model.Role, department string, employment model.EmploymentType, active bool) (*model.Employee, error) {
	var a int
	if active {
		a = 1
	}

	_, err := s.db.Exec(
		`UPDATE employees SET name = ?, role = ?, department = ?, employment_type = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, string(role), department, string(employment), a, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return s.GetByID(id)
}
