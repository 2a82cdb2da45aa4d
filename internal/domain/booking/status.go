package booking

import "github.com/BruksfildServices01/room-scheduler/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
)

var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusRejected,
	StatusCompleted,
}

// Inactive statuses hold no time on the room.
var InactiveStatuses = []Status{StatusCancelled, StatusRejected}

// ===============================
// Attendance
// ===============================

type Attendance string

const (
	AttendancePending   Attendance = "PENDING"
	AttendanceAccepted  Attendance = "ACCEPTED"
	AttendanceDeclined  Attendance = "DECLINED"
	AttendanceTentative Attendance = "TENTATIVE"
)

var Attendances = []Attendance{
	AttendancePending,
	AttendanceAccepted,
	AttendanceDeclined,
	AttendanceTentative,
}

// ===============================
// Categories
// ===============================

const (
	CategoryGeneral     = "GENERAL"
	CategoryMeeting     = "MEETING"
	CategoryEvent       = "EVENT"
	CategoryMaintenance = "MAINTENANCE"
)

var Categories = []string{
	CategoryGeneral,
	CategoryMeeting,
	CategoryEvent,
	CategoryMaintenance,
}

// ===============================
// Transitions
// ===============================

// InitialStatus is PENDING when bookings need an approver.
func InitialStatus(requireApproval bool) Status {
	if requireApproval {
		return StatusPending
	}
	return StatusConfirmed
}

func CanEdit(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReject is the admin's decline of a booking awaiting approval.
func CanReject(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
