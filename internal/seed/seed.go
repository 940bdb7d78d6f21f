// Package seed holds the records loaded into the in-memory storage driver.
// Booking dates are relative to the day the process starts.
package seed

import (
	"hostly/config"
	bookingModel "hostly/internal/domains/booking/model"
	ownerModel "hostly/internal/domains/owner/model"
	propertyModel "hostly/internal/domains/property/model"
	roomModel "hostly/internal/domains/room/model"
	userModel "hostly/internal/domains/user/model"
	"hostly/shared/constant"
	"hostly/shared/date"
	"hostly/shared/model"
	"hostly/shared/password"
	"hostly/shared/timezone"

	"github.com/rs/zerolog/log"
)

const seedUser = "seed"

func metadata() model.Metadata {
	return model.NewMetadata(seedUser, timezone.Now())
}

func ptr[T any](v T) *T {
	return &v
}

func Owners() []ownerModel.Owner {
	return []ownerModel.Owner{
		{ID: "OWN-001", Name: "Marta Alves", Email: "marta@seaside.example", Phone: "+351 912 000 111", VerificationStatus: ownerModel.VerificationVerified, DocumentsSubmitted: true, DocumentURL: ptr("owners/documents/OWN-001.pdf"), Metadata: metadata()},
		{ID: "OWN-002", Name: "Kenji Sato", Email: "kenji@alpine.example", Phone: "+81 90 1234 5678", VerificationStatus: ownerModel.VerificationVerified, DocumentsSubmitted: true, DocumentURL: ptr("owners/documents/OWN-002.pdf"), Metadata: metadata()},
		{ID: "OWN-003", Name: "Lena Novak", Email: "lena@citynest.example", Phone: "+420 601 222 333", VerificationStatus: ownerModel.VerificationPending, DocumentsSubmitted: true, DocumentURL: ptr("owners/documents/OWN-003.pdf"), Metadata: metadata()},
		{ID: "OWN-004", Name: "Omar Haddad", Email: "omar@desertrose.example", Phone: "+971 50 444 5555", VerificationStatus: ownerModel.VerificationPending, Metadata: metadata()},
	}
}

func Properties() []propertyModel.Property {
	return []propertyModel.Property{
		{ID: "PRP-001", OwnerID: "OWN-001", Name: "Seaside Retreat", Type: "resort", City: "Lisbon", ApprovalStatus: propertyModel.ApprovalApproved, CommissionRate: 15, Metadata: metadata()},
		{ID: "PRP-002", OwnerID: "OWN-002", Name: "Alpine Lodge", Type: "hotel", City: "Hakuba", ApprovalStatus: propertyModel.ApprovalApproved, CommissionRate: 12, Metadata: metadata()},
		{ID: "PRP-003", OwnerID: "OWN-001", Name: "Old Town Apartments", Type: "apartment", City: "Porto", ApprovalStatus: propertyModel.ApprovalApproved, CommissionRate: 10, Metadata: metadata()},
		{ID: "PRP-004", OwnerID: "OWN-003", Name: "City Nest", Type: "guesthouse", City: "Prague", ApprovalStatus: propertyModel.ApprovalPending, CommissionRate: 15, Metadata: metadata()},
	}
}

func Rooms() []roomModel.Room {
	return []roomModel.Room{
		{ID: "RM-101", PropertyID: "PRP-001", Number: "101", RoomType: "double", Status: roomModel.StatusOccupied, PricePerNight: 180, Metadata: metadata()},
		{ID: "RM-102", PropertyID: "PRP-001", Number: "102", RoomType: "suite", Status: roomModel.StatusAvailable, PricePerNight: 320, Metadata: metadata()},
		{ID: "RM-103", PropertyID: "PRP-001", Number: "103", RoomType: "single", Status: roomModel.StatusMaintenance, PricePerNight: 110, Metadata: metadata()},
		{ID: "RM-201", PropertyID: "PRP-002", Number: "201", RoomType: "twin", Status: roomModel.StatusOccupied, PricePerNight: 150, Metadata: metadata()},
		{ID: "RM-202", PropertyID: "PRP-002", Number: "202", RoomType: "family", Status: roomModel.StatusReserved, PricePerNight: 260, Metadata: metadata()},
		{ID: "RM-301", PropertyID: "PRP-003", Number: "1A", RoomType: "double", Status: roomModel.StatusAvailable, PricePerNight: 95, Metadata: metadata()},
		{ID: "RM-302", PropertyID: "PRP-003", Number: "1B", RoomType: "double", Status: roomModel.StatusAvailable, PricePerNight: 95, Metadata: metadata()},
		{ID: "RM-401", PropertyID: "PRP-004", Number: "1", RoomType: "single", Status: roomModel.StatusAvailable, PricePerNight: 70, Metadata: metadata()},
	}
}

type stay struct {
	id, property, room, guest, email string
	offset, nights                   int
	adults, children                 int
	status                           bookingModel.Status
	payment                          bookingModel.PaymentStatus
	rate                             float64
	refund                           int
}

// Bookings spreads stays around today so the calendar and reports have data.
func Bookings(today date.Date) []bookingModel.Booking {
	stays := []stay{
		{"BK-1001", "PRP-001", "RM-101", "Ana Lima", "ana@guest.example", -2, 4, 2, 0, bookingModel.StatusCheckedIn, bookingModel.PaymentPaid, 180, 0},
		{"BK-1002", "PRP-001", "RM-102", "Tom Becker", "tom@guest.example", 5, 3, 2, 1, bookingModel.StatusConfirmed, bookingModel.PaymentPaid, 320, 0},
		{"BK-1003", "PRP-001", "RM-101", "Priya Nair", "priya@guest.example", 9, 2, 1, 0, bookingModel.StatusPending, bookingModel.PaymentUnpaid, 180, 0},
		{"BK-1004", "PRP-002", "RM-201", "Lucas Martin", "lucas@guest.example", -1, 5, 2, 0, bookingModel.StatusCheckedIn, bookingModel.PaymentPaid, 150, 0},
		{"BK-1005", "PRP-002", "RM-202", "Sofia Rossi", "sofia@guest.example", 1, 4, 2, 2, bookingModel.StatusConfirmed, bookingModel.PaymentPaid, 260, 0},
		{"BK-1006", "PRP-002", "RM-201", "Noah Kim", "noah@guest.example", -12, 3, 1, 0, bookingModel.StatusCheckedOut, bookingModel.PaymentPaid, 150, 0},
		{"BK-1007", "PRP-003", "RM-301", "Ella Jones", "ella@guest.example", 12, 2, 2, 0, bookingModel.StatusCancelled, bookingModel.PaymentRefunded, 95, 100},
		{"BK-1008", "PRP-003", "RM-302", "Mateo Garcia", "mateo@guest.example", -7, 2, 2, 0, bookingModel.StatusCheckedOut, bookingModel.PaymentPaid, 95, 0},
		{"BK-1009", "PRP-001", "RM-102", "Hana Suzuki", "hana@guest.example", 0, 2, 2, 0, bookingModel.StatusConfirmed, bookingModel.PaymentPaid, 320, 0},
		{"BK-1010", "PRP-003", "RM-301", "Yusuf Demir", "yusuf@guest.example", 3, 1, 1, 0, bookingModel.StatusCancelled, bookingModel.PaymentPartiallyRefunded, 95, 25},
	}

	bookings := make([]bookingModel.Booking, 0, len(stays))

	for _, s := range stays {
		total := s.rate * float64(s.nights)
		refund := 0.0

		if s.refund > 0 {
			refund = total * float64(s.refund) / 100
		}

		bookings = append(bookings, bookingModel.Booking{
			ID:               s.id,
			PropertyID:       s.property,
			RoomID:           s.room,
			GuestName:        s.guest,
			GuestEmail:       s.email,
			CheckIn:          today.AddDays(s.offset),
			CheckOut:         today.AddDays(s.offset + s.nights),
			Nights:           s.nights,
			Adults:           s.adults,
			Children:         s.children,
			Status:           s.status,
			PaymentStatus:    s.payment,
			TotalAmount:      total,
			RefundPercentage: s.refund,
			RefundAmount:     refund,
			Metadata:         metadata(),
		})
	}

	return bookings
}

// Users returns the bootstrap administrator configured through APP_ADMIN_*.
// Without credentials no user is seeded.
func Users(cfg *config.Config) []userModel.User {
	if cfg.App.Admin.Email == "" || cfg.App.Admin.Password == "" {
		log.Warn().Msg("APP_ADMIN_EMAIL or APP_ADMIN_PASSWORD not set, no administrator seeded")

		return nil
	}

	hashed, err := password.Hash(cfg.App.Admin.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash administrator password")

		return nil
	}

	return []userModel.User{
		{
			ID:       "USR-001",
			Email:    cfg.App.Admin.Email,
			Password: hashed,
			Level:    constant.RoleSuperAdmin,
			FullName: "Administrator",
			Active:   true,
			Metadata: metadata(),
		},
	}
}
