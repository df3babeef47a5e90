package auth_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type mockUserRepository struct {
	passwordHashes map[string]string
	userIDs        map[string]string
	users          map[int64]*auth.User

	lookupError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		passwordHashes: make(map[string]string),
		userIDs:        make(map[string]string),
		users:          make(map[int64]*auth.User),
	}
}

func (m *mockUserRepository) GetPasswordForUsername(username string) (string, string, error) {
	if m.lookupError != nil {
		return "", "", m.lookupError
	}
	hash, exists := m.passwordHashes[username]
	if !exists {
		return "", "", errors.New("user not found")
	}
	return hash, m.userIDs[username], nil
}

func (m *mockUserRepository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	user, exists := m.users[userID]
	if !exists {
		return nil, errors.New("user not found")
	}
	return user, nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockUserRepository
		tokenGen *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = auth.NewJWTTokenGenerator(internal.SecurityConfig{
			AccessTokenSecret:  "test-access-secret",
			RefreshTokenSecret: "test-refresh-secret",
			AccessTokenTTL:     15 * time.Minute,
			RefreshTokenTTL:    7 * 24 * time.Hour,
		})
		service = auth.NewService(mockRepo, tokenGen, nil, 4)

		hash, err := auth.HashPassword("correct-password", 4)
		Expect(err).ToNot(HaveOccurred())
		mockRepo.passwordHashes["budi@example.com"] = hash
		mockRepo.userIDs["budi@example.com"] = "2"
		mockRepo.users[2] = &auth.User{
			ID:          2,
			EmployeeID:  1,
			Email:       "budi@example.com",
			Name:        "Budi Santoso",
			Permissions: []string{auth.PermApplyLeave},
		}
	})

	Describe("Authenticate", func() {
		Context("with valid credentials", func() {
			It("returns an access and a refresh token", func() {
				tokens, err := service.Authenticate(auth.LoginDTO{
					Email:    "budi@example.com",
					Password: "correct-password",
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(tokens.AccessToken).ToNot(BeEmpty())
				Expect(tokens.RefreshToken).ToNot(BeEmpty())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				Expect(err).ToNot(HaveOccurred())
				Expect(claims.UserID).To(Equal("2"))
				Expect(claims.Email).To(Equal("budi@example.com"))
			})
		})

		Context("with a wrong password", func() {
			It("returns invalid credentials", func() {
				_, err := service.Authenticate(auth.LoginDTO{
					Email:    "budi@example.com",
					Password: "wrong-password",
				})
				Expect(err).To(Equal(auth.ErrInvalidCredentials))
			})
		})

		Context("with an unknown email", func() {
			It("returns invalid credentials, not a lookup error", func() {
				_, err := service.Authenticate(auth.LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct-password",
				})
				Expect(err).To(Equal(auth.ErrInvalidCredentials))
			})
		})

		Context("with missing fields", func() {
			It("returns a validation error", func() {
				_, err := service.Authenticate(auth.LoginDTO{Email: "budi@example.com"})
				Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
			})
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh token pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "budi@example.com",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(refreshed.AccessToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("2"))
		})

		It("rejects a garbage token", func() {
			_, err := service.RefreshTokens("not-a-jwt")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("rejects an expired token", func() {
			expiredGen := auth.NewJWTTokenGenerator(internal.SecurityConfig{
				AccessTokenSecret:  "test-access-secret",
				RefreshTokenSecret: "test-refresh-secret",
				AccessTokenTTL:     -time.Minute,
				RefreshTokenTTL:    7 * 24 * time.Hour,
			})
			token, err := expiredGen.GenerateAccessToken("2", "budi@example.com")
			Expect(err).ToNot(HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("rejects a token signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator(internal.SecurityConfig{
				AccessTokenSecret:  "some-other-secret",
				RefreshTokenSecret: "another-refresh-secret",
				AccessTokenTTL:     15 * time.Minute,
				RefreshTokenTTL:    7 * 24 * time.Hour,
			})
			token, err := otherGen.GenerateAccessToken("2", "budi@example.com")
			Expect(err).ToNot(HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("GetUserWithPermissions", func() {
		It("returns the account with its permission names", func() {
			user, err := service.GetUserWithPermissions(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(user.EmployeeID).To(Equal(int64(1)))
			Expect(user.HasPermission(auth.PermApplyLeave)).To(BeTrue())
			Expect(user.HasPermission(auth.PermApproveLeave)).To(BeFalse())
		})
	})
})

var _ = Describe("User permissions", func() {
	It("treats approvers, managers and admins as managers", func() {
		approver := &auth.User{Permissions: []string{auth.PermApproveLeave}}
		admin := &auth.User{Permissions: []string{auth.PermAdmin}}
		regular := &auth.User{Permissions: []string{auth.PermApplyLeave}}

		Expect(approver.IsManager()).To(BeTrue())
		Expect(admin.IsManager()).To(BeTrue())
		Expect(admin.IsAdmin()).To(BeTrue())
		Expect(regular.IsManager()).To(BeFalse())
	})
})
