package employee

import (
	"log/slog"

	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	GetByID(id int64) (*employeeDatamodel.Employee, error)
	GetByIDs(ids []int64) ([]*employeeDatamodel.Employee, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(id int64) (*Employee, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Warn("employee lookup failed", "employee_id", id, "error", err)
		return nil, ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

// NamesByIDs resolves display names for a set of employee ids. Unknown ids
// are simply absent from the result; callers fall back to a blank name.
func (s *Service) NamesByIDs(ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	rows, err := s.repo.GetByIDs(ids)
	if err != nil {
		s.logger.Error("employee batch lookup failed", "error", err)
		return nil, err
	}

	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
