package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"dormwash/internal/database"
	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "dormwash.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}
	if err := wallet.Migrate(db); err != nil {
		log.Fatal("wallet migrate failed:", err)
	}

	// Cleanup old data, children first.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM wallets")
	db.Exec("DELETE FROM push_subscriptions")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM gateway_orders")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM maintenance_records")
	db.Exec("DELETE FROM machines")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM hostels")

	// ================== HOSTELS ==================
	log.Println("Creating hostels...")
	hostels := []domain.Hostel{
		{Name: "North Block", Location: "Campus Road 1"},
		{Name: "South Block", Location: "Campus Road 2"},
		{Name: "Lake View", Location: "Lakeside Lane 3"},
	}
	for i := range hostels {
		db.Create(&hostels[i])
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@hostel.edu",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Site Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@hostel.edu / admin123")

	for i := range hostels {
		hash, _ := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.DefaultCost)
		staff := domain.User{
			Email:        fmt.Sprintf("staff%d@hostel.edu", i+1),
			PasswordHash: string(hash),
			Role:         domain.RoleStaff,
			Name:         fmt.Sprintf("Warden %d", i+1),
			HostelID:     &hostels[i].ID,
		}
		db.Create(&staff)
	}

	students := []domain.User{}
	for i := 0; i < 6; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
		hostelID := hostels[i%len(hostels)].ID
		student := domain.User{
			Email:        fmt.Sprintf("student%d@hostel.edu", i+1),
			PasswordHash: string(hash),
			Role:         domain.RoleStudent,
			Name:         fmt.Sprintf("Student %d", i+1),
			Phone:        fmt.Sprintf("+91 98765 432%02d", i+10),
			HostelID:     &hostelID,
			RoomNumber:   fmt.Sprintf("%d%02d", i%4+1, i+1),
		}
		db.Create(&student)
		students = append(students, student)
	}

	// ================== MACHINES ==================
	log.Println("Creating machines...")
	for i := range hostels {
		for w := 0; w < 3; w++ {
			db.Create(&domain.Machine{
				HostelID:   hostels[i].ID,
				Type:       domain.MachineWasher,
				Label:      fmt.Sprintf("W-%d0%d", i+1, w+1),
				Status:     domain.MachineAvailable,
				CostPerUse: 20,
			})
		}
		for d := 0; d < 2; d++ {
			db.Create(&domain.Machine{
				HostelID:   hostels[i].ID,
				Type:       domain.MachineDryer,
				Label:      fmt.Sprintf("D-%d0%d", i+1, d+1),
				Status:     domain.MachineAvailable,
				CostPerUse: 15,
			})
		}
	}

	// ================== WALLETS ==================
	log.Println("Funding student wallets...")
	walletService := wallet.NewService(db)
	for _, s := range students {
		if _, _, err := walletService.Credit(context.Background(), s.ID, 200, wallet.TransactionTypeAdd, "seed"); err != nil {
			log.Printf("credit wallet for %s: %v", s.Email, err)
		}
	}

	log.Println("Seed complete.")
}
