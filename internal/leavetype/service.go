package leavetype

import (
	"log/slog"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

type RepositoryAPI interface {
	GetAll() ([]*leaveDatamodel.LeaveType, error)
	GetByID(id int64) (*leaveDatamodel.LeaveType, error)
	GetByName(name string) (*leaveDatamodel.LeaveType, error)
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

func (s *Service) All() ([]*LeaveType, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get leave types", "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

// ActiveTypes returns the leave types employees may currently apply for.
func (s *Service) ActiveTypes() ([]*LeaveType, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	active := make([]*LeaveType, 0, len(all))
	for _, lt := range all {
		if lt.IsActive {
			active = append(active, lt)
		}
	}
	return active, nil
}

// BalanceTracked returns active types that participate in balance accounting.
func (s *Service) BalanceTracked() ([]*LeaveType, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	tracked := make([]*LeaveType, 0, len(all))
	for _, lt := range all {
		if lt.IsActive && lt.TracksBalance {
			tracked = append(tracked, lt)
		}
	}
	return tracked, nil
}

func (s *Service) GetByID(id int64) (*LeaveType, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrLeaveTypeNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByName(name string) (*LeaveType, error) {
	row, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Warn("leave type lookup failed", "name", name, "error", err)
		return nil, ErrLeaveTypeNotFound
	}
	return FromDataModel(row), nil
}
