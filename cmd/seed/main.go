package main

import (
	"log"
	"os"

	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/model"
	"workspace-disputes-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds demo users, bookings and a sample dispute for local development.
// Idempotent: existing rows (matched by email) are left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo data...")

	admin := seedUser(db, "admin@workspace.local", "Ava Admin", string(entity.UserRoleAdmin))
	moderator := seedUser(db, "moderator@workspace.local", "Milo Moderator", string(entity.UserRoleModerator))
	partner := seedUser(db, "partner@workspace.local", "Pat Partner", string(entity.UserRoleUser))
	customer := seedUser(db, "customer@workspace.local", "Casey Customer", string(entity.UserRoleUser))
	_ = moderator

	booking := seedBooking(db, customer, partner)
	seedDispute(db, customer, partner, booking, admin)

	color.Green("Seeding complete")
}

func seedUser(db *gorm.DB, email, fullName, role string) *model.User {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		color.Yellow("User %s already exists, skipping", email)
		return &existing
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("Error: failed to query user %s: %v", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     fullName,
		Role:         role,
		Status:       string(entity.UserStatusActive),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error: failed to create user %s: %v", email, err)
	}

	color.Green("Created user %s (%s)", email, role)
	return &user
}

func seedBooking(db *gorm.DB, customer, partner *model.User) *model.Booking {
	var existing model.Booking
	err := db.Where("user_id = ? AND partner_id = ?", customer.Id, partner.Id).First(&existing).Error
	if err == nil {
		color.Yellow("Booking for %s already exists, skipping", customer.Email)
		return &existing
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("Error: failed to query booking: %v", err)
	}

	booking := model.Booking{
		Id:        uuid.New(),
		UserId:    customer.Id,
		SpaceId:   uuid.New(),
		PartnerId: partner.Id,
		Status:    "confirmed",
	}
	if err := db.Create(&booking).Error; err != nil {
		log.Fatalf("Error: failed to create booking: %v", err)
	}

	color.Green("Created booking %s", booking.Id)
	return &booking
}

func seedDispute(db *gorm.DB, complainant, respondent *model.User, booking *model.Booking, assignee *model.User) {
	var count int64
	if err := db.Model(&model.Dispute{}).Where("complainant_id = ?", complainant.Id).Count(&count).Error; err != nil {
		log.Fatalf("Error: failed to query disputes: %v", err)
	}
	if count > 0 {
		color.Yellow("Dispute for %s already exists, skipping", complainant.Email)
		return
	}

	amount := 125.50
	dispute := model.Dispute{
		ID:             uuid.New(),
		Type:           string(entity.DisputeTypeBookingIssue),
		Title:          "Meeting room was double booked",
		Description:    "Arrived at the booked slot and the room was already occupied by another team.",
		ComplainantID:  complainant.Id,
		RespondentID:   respondent.Id,
		BookingID:      &booking.Id,
		Status:         string(entity.DisputeStatusPending),
		Priority:       string(entity.DisputePriorityMedium),
		AssignedTo:     &assignee.Id,
		DisputedAmount: &amount,
		Version:        1,
	}
	if err := db.Create(&dispute).Error; err != nil {
		log.Fatalf("Error: failed to create dispute: %v", err)
	}

	event := model.DisputeEvent{
		ID:        uuid.New(),
		DisputeID: dispute.ID,
		Event:     "Dispute created",
		Actor:     complainant.FullName,
		Details:   "A BOOKING_ISSUE dispute was filed",
	}
	if err := db.Create(&event).Error; err != nil {
		log.Fatalf("Error: failed to create dispute event: %v", err)
	}

	color.Green("Created sample dispute %s", dispute.ID)
}
