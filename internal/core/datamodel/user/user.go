package user

import "time"

// User maps the auth_user table.
type User struct {
	ID          int64      `gorm:"primaryKey"`
	Password    string     `gorm:"column:password;size:128;not null"`
	LastLogin   *time.Time `gorm:"column:last_login"`
	IsSuperuser bool       `gorm:"column:is_superuser;not null;default:false"`
	Username    string     `gorm:"column:username;size:150;uniqueIndex;not null"`
	FirstName   string     `gorm:"column:first_name;size:150;not null;default:''"`
	LastName    string     `gorm:"column:last_name;size:150;not null;default:''"`
	Email       string     `gorm:"column:email;size:254;uniqueIndex;not null"`
	IsStaff     bool       `gorm:"column:is_staff;not null;default:false"`
	IsActive    bool       `gorm:"column:is_active;not null"`
	DateJoined  time.Time  `gorm:"column:date_joined;not null"`
}

func (User) TableName() string {
	return "auth_user"
}

// ExtraInfo maps globals_extrainfo, a one-to-one extension of User keyed by username.
type ExtraInfo struct {
	ID             string     `gorm:"primaryKey;column:id;size:20"`
	UserID         int64      `gorm:"column:user_id;uniqueIndex;not null"`
	Title          string     `gorm:"column:title;size:20;not null;default:''"`
	Sex            string     `gorm:"column:sex;size:2;not null;default:''"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth;type:date"`
	UserStatus     string     `gorm:"column:user_status;size:50;not null;default:'PRESENT'"`
	Address        string     `gorm:"column:address;not null;default:''"`
	PhoneNo        int64      `gorm:"column:phone_no;not null;default:0"`
	UserType       string     `gorm:"column:user_type;size:20;not null;default:''"`
	ProfilePicture *string    `gorm:"column:profile_picture;size:100"`
	AboutMe        string     `gorm:"column:about_me;not null;default:''"`
	DateModified   *time.Time `gorm:"column:date_modified"`
	DepartmentID   *int64     `gorm:"column:department_id"`
}

func (ExtraInfo) TableName() string {
	return "globals_extrainfo"
}
