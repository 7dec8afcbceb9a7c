package models

// UserInfo is the profile of the logged in user as returned by /user/info
type UserInfo struct {
	ID        int64  `json:"id" yaml:"id"`
	Username  string `json:"username" yaml:"username"`
	RealName  string `json:"realName,omitempty" yaml:"realName,omitempty"`
	StudentID string `json:"studentId,omitempty" yaml:"studentId,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Role      Role   `json:"role" yaml:"role"`
	// Clubs managed by a CLUB_ADMIN
	ManagedClubIDs []int64 `json:"managedClubIds,omitempty" yaml:"managedClubIds,omitempty"`
}

// Credentials is the login form
type Credentials struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// LoginResult is the data payload of /user/login
type LoginResult struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"userInfo"`
}

// UpdateProfileRequest is the body of /user/update
type UpdateProfileRequest struct {
	RealName string `json:"realName,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Page is the paginated list envelope used by every list endpoint
type Page[T any] struct {
	Records []T   `json:"records" yaml:"records"`
	Total   int64 `json:"total" yaml:"total"`
	Size    int64 `json:"size" yaml:"size"`
	Current int64 `json:"current" yaml:"current"`
}

// Club is a student club
type Club struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Logo        string `json:"logo,omitempty" yaml:"logo,omitempty"`
	LeaderID    int64  `json:"leaderId,omitempty" yaml:"leaderId,omitempty"`
	LeaderName  string `json:"leaderName,omitempty" yaml:"leaderName,omitempty"`
	MemberCount int    `json:"memberCount" yaml:"memberCount"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	CreateTime  string `json:"createTime,omitempty" yaml:"createTime,omitempty"`
}

// ClubMember is one row of /club/{id}/members
type ClubMember struct {
	UserID    int64  `json:"userId" yaml:"userId"`
	Username  string `json:"username" yaml:"username"`
	RealName  string `json:"realName,omitempty" yaml:"realName,omitempty"`
	Position  string `json:"position,omitempty" yaml:"position,omitempty"`
	JoinTime  string `json:"joinTime,omitempty" yaml:"joinTime,omitempty"`
	StudentID string `json:"studentId,omitempty" yaml:"studentId,omitempty"`
}

// ClubForm is the body used to create or update a club
type ClubForm struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name" binding:"required" validate:"required,max=64"`
	Category    string `json:"category" binding:"required" validate:"required"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// Application statuses as reported by the backend
const (
	ApplicationPending      = "PENDING"
	ApplicationInterviewing = "INTERVIEWING"
	ApplicationApproved     = "APPROVED"
	ApplicationRejected     = "REJECTED"
	ApplicationJoined       = "JOINED"
)

// Application is a request to join a club
type Application struct {
	ID            int64  `json:"id" yaml:"id"`
	ClubID        int64  `json:"clubId" yaml:"clubId"`
	ClubName      string `json:"clubName,omitempty" yaml:"clubName,omitempty"`
	UserID        int64  `json:"userId,omitempty" yaml:"userId,omitempty"`
	StudentID     int64  `json:"studentId,omitempty" yaml:"studentId,omitempty"`
	Username      string `json:"username,omitempty" yaml:"username,omitempty"`
	Reason        string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Status        string `json:"status" yaml:"status"`
	ReviewComment string `json:"reviewComment,omitempty" yaml:"reviewComment,omitempty"`
	CreateTime    string `json:"createTime,omitempty" yaml:"createTime,omitempty"`
}

// ApplyRequest is the body of /club/apply
type ApplyRequest struct {
	ClubID int64  `json:"clubId" binding:"required" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"max=500"`
}

// ReviewRequest approves or rejects a pending application or activity
type ReviewRequest struct {
	ApplicationID int64  `json:"applicationId,omitempty"`
	Approved      bool   `json:"approved"`
	Comment       string `json:"comment,omitempty"`
}

// Activity statuses as reported by the backend
const (
	ActivityPending   = "PENDING"
	ActivityPublished = "PUBLISHED"
	ActivityRejected  = "REJECTED"
	ActivityCancelled = "CANCELLED"
	ActivityFinished  = "FINISHED"
)

// Activity is an event organised by a club
type Activity struct {
	ID                  int64  `json:"id" yaml:"id"`
	ClubID              int64  `json:"clubId" yaml:"clubId"`
	ClubName            string `json:"clubName,omitempty" yaml:"clubName,omitempty"`
	Name                string `json:"name" yaml:"name"`
	Description         string `json:"description,omitempty" yaml:"description,omitempty"`
	Location            string `json:"location,omitempty" yaml:"location,omitempty"`
	ActivityTime        string `json:"activityTime,omitempty" yaml:"activityTime,omitempty"`
	EndTime             string `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	MaxParticipants     int    `json:"maxParticipants" yaml:"maxParticipants"`
	CurrentParticipants int    `json:"currentParticipants" yaml:"currentParticipants"`
	Status              string `json:"status" yaml:"status"`
	CreateTime          string `json:"createTime,omitempty" yaml:"createTime,omitempty"`
}

// ActivityForm is the body used to create or update an activity
type ActivityForm struct {
	ClubID          int64  `json:"clubId" binding:"required" validate:"required,gt=0"`
	Name            string `json:"name" binding:"required" validate:"required,max=100"`
	Description     string `json:"description,omitempty"`
	Location        string `json:"location" binding:"required" validate:"required"`
	ActivityTime    string `json:"activityTime" binding:"required" validate:"required"`
	EndTime         string `json:"endTime,omitempty"`
	MaxParticipants int    `json:"maxParticipants" validate:"gte=0"`
}

// Signup statuses
const (
	SignupRegistered = "SIGNED_UP"
	SignupCheckedIn  = "CHECKED_IN"
	SignupAbsent     = "ABSENT"
	SignupCancelled  = "CANCELLED"
)

// Signup is one registration for an activity
type Signup struct {
	ID           int64  `json:"id" yaml:"id"`
	ActivityID   int64  `json:"activityId" yaml:"activityId"`
	ActivityName string `json:"activityName,omitempty" yaml:"activityName,omitempty"`
	UserID       int64  `json:"userId" yaml:"userId"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Status       string `json:"status" yaml:"status"`
	SignupTime   string `json:"signupTime,omitempty" yaml:"signupTime,omitempty"`
}

// CheckinRequest marks attendance for a signup. Absent=true marks the user absent.
type CheckinRequest struct {
	UserID int64 `json:"userId" binding:"required" validate:"required,gt=0"`
	Absent bool  `json:"absent"`
}

// ActivityReview is the body of /admin/activity/{id}/review
type ActivityReview struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment,omitempty"`
}
