package user

import (
	"strings"
	"time"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/credential"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
)

const (
	RoleStudent       = "Student"
	DefaultUserStatus = "PRESENT"
)

type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Password    string     `json:"-"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	DateJoined  time.Time  `json:"date_joined"`
	LastLogin   *time.Time `json:"last_login"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type ExtraInfo struct {
	ID             string     `json:"id"`
	UserID         int64      `json:"user"`
	Title          string     `json:"title"`
	Sex            string     `json:"sex"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	UserStatus     string     `json:"user_status"`
	Address        string     `json:"address"`
	PhoneNo        int64      `json:"phone_no"`
	UserType       string     `json:"user_type"`
	ProfilePicture *string    `json:"profile_picture"`
	AboutMe        string     `json:"about_me"`
	DateModified   *time.Time `json:"date_modified"`
	DepartmentID   *int64     `json:"department"`
}

// AccountInput is the roster entry a new account is derived from.
type AccountInput struct {
	RollNo      string
	Name        string
	Role        string
	IsSuperuser bool
	// IsStaff overrides the Role derived flag when set (export layout rows carry it directly).
	IsStaff *bool
	Profile ExtraInfoDTO
}

// NewAccount derives the stored user fields from a roster entry. Password is left empty.
func NewAccount(in AccountInput, emailDomain string, now time.Time) *User {
	username := strings.ToUpper(strings.TrimSpace(in.RollNo))
	first, last := SplitName(in.Name)

	isStaff := in.Role == RoleStudent
	if in.IsStaff != nil {
		isStaff = *in.IsStaff
	}

	return &User{
		Username:    username,
		FirstName:   first,
		LastName:    last,
		Email:       username + "@" + emailDomain,
		IsStaff:     isStaff,
		IsSuperuser: in.IsSuperuser,
		IsActive:    true,
		DateJoined:  now,
	}
}

// SplitName capitalizes the first token as first name and the joined rest as last name.
func SplitName(name string) (first, last string) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ""
	}
	first = credential.Capitalize(tokens[0])
	if len(tokens) > 1 {
		last = credential.Capitalize(strings.Join(tokens[1:], " "))
	}
	return first, last
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:          u.ID,
		Password:    u.Password,
		LastLogin:   u.LastLogin,
		IsSuperuser: u.IsSuperuser,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsActive:    u.IsActive,
		DateJoined:  u.DateJoined,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Password:    u.Password,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		DateJoined:  u.DateJoined,
		LastLogin:   u.LastLogin,
	}
}

func FromDataModels(users []*userDatamodel.User) []*User {
	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, FromDataModel(u))
	}
	return out
}

func ExtraInfoToDataModel(e *ExtraInfo) *userDatamodel.ExtraInfo {
	return &userDatamodel.ExtraInfo{
		ID:             e.ID,
		UserID:         e.UserID,
		Title:          e.Title,
		Sex:            e.Sex,
		DateOfBirth:    e.DateOfBirth,
		UserStatus:     e.UserStatus,
		Address:        e.Address,
		PhoneNo:        e.PhoneNo,
		UserType:       e.UserType,
		ProfilePicture: e.ProfilePicture,
		AboutMe:        e.AboutMe,
		DateModified:   e.DateModified,
		DepartmentID:   e.DepartmentID,
	}
}

func ExtraInfoFromDataModel(e *userDatamodel.ExtraInfo) *ExtraInfo {
	return &ExtraInfo{
		ID:             e.ID,
		UserID:         e.UserID,
		Title:          e.Title,
		Sex:            e.Sex,
		DateOfBirth:    e.DateOfBirth,
		UserStatus:     e.UserStatus,
		Address:        e.Address,
		PhoneNo:        e.PhoneNo,
		UserType:       e.UserType,
		ProfilePicture: e.ProfilePicture,
		AboutMe:        e.AboutMe,
		DateModified:   e.DateModified,
		DepartmentID:   e.DepartmentID,
	}
}
