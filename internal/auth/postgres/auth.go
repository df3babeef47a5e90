package postgres

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal/auth"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForUsername(email string) (string, string, error) {
	var row userDatamodel.User
	err := r.db.
		Where("email = ? AND is_active = ?", email, true).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", "", fmt.Errorf("user not found")
		}
		return "", "", err
	}
	return row.PasswordHash, strconv.FormatInt(row.ID, 10), nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var row userDatamodel.User
	err := r.db.
		Where("id = ? AND is_active = ?", userID, true).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	user := auth.User{
		ID:    row.ID,
		Email: row.Email,
		Name:  row.Name,
	}
	if row.EmployeeID != nil {
		user.EmployeeID = *row.EmployeeID
	}

	permQuery := `SELECT p.name
	             FROM permissions p
	             JOIN user_permissions up ON p.id = up.permission_id
	             WHERE up.user_id = ?`

	rows, err := r.db.Raw(permQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	user.Permissions = permissions
	return &user, nil
}
