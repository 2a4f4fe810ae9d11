package models

// All enums are persisted and serialized as lower-case strings.

type RoomCategory string

const (
	RoomCategorySingle       RoomCategory = "single"
	RoomCategoryCouple       RoomCategory = "couple"
	RoomCategoryFamily       RoomCategory = "family"
	RoomCategoryPresidential RoomCategory = "presidential"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case RoomCategorySingle, RoomCategoryCouple, RoomCategoryFamily, RoomCategoryPresidential:
		return true
	}
	return false
}

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusBooked      RoomStatus = "booked"
	RoomStatusUnavailable RoomStatus = "unavailable"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusBooked, RoomStatusUnavailable:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// LiveBookingStatuses keep a room marked as booked.
var LiveBookingStatuses = []BookingStatus{BookingPending, BookingApproved}

// bookingTransitions lists the allowed next states. Terminal states map to nothing.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingApproved, BookingCancelled},
	BookingApproved: {BookingCompleted, BookingCancelled},
}

// CanTransitionTo reports whether a booking may move from s to next.
// Re-writing the current status is always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending_payment"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayAtHotel   PaymentMethod = "pay_at_hotel"
	BankTransfer PaymentMethod = "bank_transfer"
	CreditCard   PaymentMethod = "credit_card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayAtHotel, BankTransfer, CreditCard:
		return true
	}
	return false
}

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserBlocked  UserStatus = "blocked"
	UserVerified UserStatus = "verified"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserBlocked, UserVerified:
		return true
	}
	return false
}

type InquiryStatus string

const (
	InquiryOpen     InquiryStatus = "open"
	InquiryAnswered InquiryStatus = "answered"
	InquiryClosed   InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryOpen, InquiryAnswered, InquiryClosed:
		return true
	}
	return false
}
