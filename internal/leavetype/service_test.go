package leavetype_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
)

func TestLeaveType(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LeaveType Suite")
}

type mockLeaveTypeRepository struct {
	types    []*leaveDatamodel.LeaveType
	getError error
}

func (m *mockLeaveTypeRepository) GetAll() ([]*leaveDatamodel.LeaveType, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.types, nil
}

func (m *mockLeaveTypeRepository) GetByID(id int64) (*leaveDatamodel.LeaveType, error) {
	for _, lt := range m.types {
		if lt.ID == id {
			return lt, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockLeaveTypeRepository) GetByName(name string) (*leaveDatamodel.LeaveType, error) {
	for _, lt := range m.types {
		if lt.Name == name {
			return lt, nil
		}
	}
	return nil, errors.New("not found")
}

var _ = Describe("LeaveTypeService", func() {
	var (
		service  *leavetype.Service
		mockRepo *mockLeaveTypeRepository
	)

	BeforeEach(func() {
		mockRepo = &mockLeaveTypeRepository{types: []*leaveDatamodel.LeaveType{
			{ID: 1, Name: "Privilege Leave", Code: leavetype.CodePrivilege, TracksBalance: true, IsActive: true},
			{ID: 2, Name: "Sick Leave", Code: leavetype.CodeSick, TracksBalance: true, IsActive: true},
			{ID: 3, Name: "Work From Home", Code: leavetype.CodeWorkFromHome, IsActive: true},
			{ID: 4, Name: "Working Late", Code: leavetype.CodeWorkingLate, IsActive: false},
		}}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leavetype.NewService(mockRepo, logger)
	})

	Describe("ActiveTypes", func() {
		It("filters out inactive types", func() {
			active, err := service.ActiveTypes()
			Expect(err).ToNot(HaveOccurred())
			Expect(active).To(HaveLen(3))
			for _, lt := range active {
				Expect(lt.IsActive).To(BeTrue())
			}
		})
	})

	Describe("BalanceTracked", func() {
		It("returns only active balance-tracked types", func() {
			tracked, err := service.BalanceTracked()
			Expect(err).ToNot(HaveOccurred())
			Expect(tracked).To(HaveLen(2))
			for _, lt := range tracked {
				Expect(lt.TracksBalance).To(BeTrue())
			}
		})
	})

	Describe("GetByName", func() {
		It("finds a type by its display name", func() {
			lt, err := service.GetByName("Work From Home")
			Expect(err).ToNot(HaveOccurred())
			Expect(lt.Code).To(Equal(leavetype.CodeWorkFromHome))
		})

		It("maps a repository miss to not found", func() {
			_, err := service.GetByName("Sabbatical")
			Expect(err).To(MatchError(leavetype.ErrLeaveTypeNotFound))
		})
	})

	Describe("GetByID", func() {
		It("maps a repository miss to not found", func() {
			_, err := service.GetByID(99)
			Expect(err).To(MatchError(leavetype.ErrLeaveTypeNotFound))
		})
	})

	Context("when the repository fails", func() {
		It("propagates the error", func() {
			mockRepo.getError = errors.New("connection lost")
			_, err := service.All()
			Expect(err).To(HaveOccurred())
		})
	})
})
