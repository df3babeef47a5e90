package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"comp_off_dates", "leave_transactions", "leave_opening_allocations", "user_permissions", "users", "employees", "leave_types", "permissions"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		seedPermissions(db)
		seedLeaveTypes(db)
		seedEmployeesAndUsers(db)
		seedAllocations(db)

		fmt.Println("Seeding complete")
	},
}

func seedPermissions(db *gorm.DB) {
	perms := []string{auth.PermApplyLeave, auth.PermApproveLeave, auth.PermManageAllocations, auth.PermManager, auth.PermAdmin}
	for _, name := range perms {
		if err := db.Exec("INSERT INTO permissions (name, created_at) VALUES (?, now()) ON CONFLICT (name) DO NOTHING", name).Error; err != nil {
			log.Fatalf("failed to seed permission %s: %v", name, err)
		}
	}
	fmt.Println("Seeded permissions")
}

func seedLeaveTypes(db *gorm.DB) {
	type seedType struct {
		name, code                            string
		tracksBalance, twoLevel, customerAppr bool
		yearly, quarterly, monthly            float64
	}

	types := []seedType{
		{name: "Privilege Leave", code: "privilege", tracksBalance: true, yearly: 21},
		{name: "Sick Leave", code: "sick", tracksBalance: true, yearly: 12},
		{name: "Missed Entry", code: "missed_entry"},
		{name: "Work From Home", code: "work_from_home", customerAppr: true},
		{name: "Comp Off Redemption", code: "comp_off_redemption", twoLevel: true},
		{name: "Working Late", code: "working_late", twoLevel: true},
	}

	for _, t := range types {
		err := db.Exec(`INSERT INTO leave_types
			(name, code, tracks_balance, requires_two_level, requires_customer_approval, yearly_allocation, quarterly_allocation, monthly_allocation, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, true, now(), now())
			ON CONFLICT (code) DO NOTHING`,
			t.name, t.code, t.tracksBalance, t.twoLevel, t.customerAppr, t.yearly, t.quarterly, t.monthly).Error
		if err != nil {
			log.Fatalf("failed to seed leave type %s: %v", t.code, err)
		}
	}
	fmt.Println("Seeded leave types")
}

func seedEmployeesAndUsers(db *gorm.DB) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

	type seedPerson struct {
		name, email, department, designation string
		joiningDate                          string
		lateralHire                          bool
		managerEmail                         string
		permissions                          []string
	}

	people := []seedPerson{
		{name: "Anita Rao", email: "anita@mail.com", department: "Engineering", designation: "Engineering Manager",
			joiningDate: "2019-06-10", permissions: []string{auth.PermApplyLeave, auth.PermApproveLeave, auth.PermManager}},
		{name: "Budi Santoso", email: "budi@mail.com", department: "Engineering", designation: "Software Engineer",
			joiningDate: "2022-01-17", managerEmail: "anita@mail.com", permissions: []string{auth.PermApplyLeave}},
		{name: "Citra Dewi", email: "citra@mail.com", department: "Engineering", designation: "Software Engineer",
			joiningDate: "2024-02-05", lateralHire: true, managerEmail: "anita@mail.com", permissions: []string{auth.PermApplyLeave}},
		{name: "Dian Admin", email: "dian@mail.com", department: "HR", designation: "HR Administrator",
			joiningDate: "2020-03-02", permissions: []string{auth.PermAdmin}},
	}

	for _, p := range people {
		var managerID *int64
		if p.managerEmail != "" {
			var id int64
			row := db.Raw("SELECT id FROM employees WHERE email = ?", p.managerEmail).Row()
			if err := row.Scan(&id); err == nil {
				managerID = &id
			}
		}

		var exists int
		row := db.Raw("SELECT 1 FROM employees WHERE email = ?", p.email).Row()
		if err := row.Scan(&exists); err != nil {
			err := db.Exec(`INSERT INTO employees
				(name, email, department, designation, joining_date, lateral_hire, manager_id, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, true, now(), now())`,
				p.name, p.email, p.department, p.designation, p.joiningDate, p.lateralHire, managerID).Error
			if err != nil {
				log.Fatalf("failed to seed employee %s: %v", p.email, err)
			}
		}

		var employeeID int64
		row = db.Raw("SELECT id FROM employees WHERE email = ?", p.email).Row()
		if err := row.Scan(&employeeID); err != nil {
			log.Fatalf("failed to read back employee %s: %v", p.email, err)
		}

		row = db.Raw("SELECT 1 FROM users WHERE email = ?", p.email).Row()
		if err := row.Scan(&exists); err != nil {
			err := db.Exec(`INSERT INTO users (email, name, password_hash, employee_id, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, true, now(), now())`,
				p.email, p.name, string(hash), employeeID).Error
			if err != nil {
				log.Fatalf("failed to seed user %s: %v", p.email, err)
			}
			fmt.Println("Seeded user:", p.email)
		}

		for _, perm := range p.permissions {
			err := db.Exec(`INSERT INTO user_permissions (user_id, permission_id, created_at)
				SELECT u.id, pm.id, now() FROM users u, permissions pm
				WHERE u.email = ? AND pm.name = ?
				ON CONFLICT (user_id, permission_id) DO NOTHING`, p.email, perm).Error
			if err != nil {
				log.Fatalf("failed to grant %s to %s: %v", perm, p.email, err)
			}
		}
	}
	fmt.Println("Seeded employees and users")
}

func seedAllocations(db *gorm.DB) {
	err := db.Exec(`INSERT INTO leave_opening_allocations (employee_id, leave_type_id, fiscal_year, allocated_days, remarks, created_at, updated_at)
		SELECT e.id, lt.id, 2026, lt.yearly_allocation, 'opening allocation', now(), now()
		FROM employees e CROSS JOIN leave_types lt
		WHERE lt.tracks_balance = true
		AND NOT EXISTS (
			SELECT 1 FROM leave_opening_allocations a
			WHERE a.employee_id = e.id AND a.leave_type_id = lt.id AND a.fiscal_year = 2026
		)`).Error
	if err != nil {
		log.Fatalf("failed to seed allocations: %v", err)
	}
	fmt.Println("Seeded opening allocations")
}
