package user

import (
	"time"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

// CreateUserDTO is the signup payload. ExtraInfo fields are optional and stored alongside.
type CreateUserDTO struct {
	RollNo      string `json:"rollNo"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	ExtraInfoDTO
}

func (dto CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("rollNo", dto.RollNo).Required().MinLength(3).MaxLength(150)
	v.Field("name", dto.Name).Required().MaxLength(300)
	if err := v.Validate(); err != nil {
		return err
	}
	return dto.ExtraInfoDTO.Validate()
}

func (dto CreateUserDTO) Account() AccountInput {
	return AccountInput{
		RollNo:      dto.RollNo,
		Name:        dto.Name,
		Role:        dto.Role,
		IsSuperuser: dto.IsSuperuser,
		Profile:     dto.ExtraInfoDTO,
	}
}

// ExtraInfoDTO carries optional profile fields. Nil fields are left untouched on update.
type ExtraInfoDTO struct {
	Title          *string `json:"title,omitempty"`
	Sex            *string `json:"sex,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	UserStatus     *string `json:"user_status,omitempty"`
	Address        *string `json:"address,omitempty"`
	PhoneNo        *int64  `json:"phone_no,omitempty"`
	UserType       *string `json:"user_type,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	AboutMe        *string `json:"about_me,omitempty"`
	Department     *int64  `json:"department,omitempty"`
}

func (dto ExtraInfoDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).MaxLength(20)
	v.Field("sex", dto.Sex).OneOf("M", "F", "O")
	v.Field("user_status", dto.UserStatus).OneOf("NEW", "PRESENT")
	v.Field("user_type", dto.UserType).MaxLength(20)
	v.Field("date_of_birth", dto.DateOfBirth).Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(*string)
		if s == nil || *s == "" {
			return nil
		}
		if _, err := time.Parse(dateLayout, *s); err != nil {
			return errors.NewValidationFieldError("date_of_birth", "date_of_birth must be formatted as YYYY-MM-DD", errors.ErrCodeInvalidField)
		}
		return nil
	})
	v.Field("phone_no", dto.PhoneNo).Custom(func(value interface{}) *errors.AppError {
		p, _ := value.(*int64)
		if p != nil && *p < 0 {
			return errors.NewValidationFieldError("phone_no", "phone_no must not be negative", errors.ErrCodeInvalidField)
		}
		return nil
	})
	return v.Validate()
}

// Apply copies the set fields onto info. Validate must have passed.
func (dto ExtraInfoDTO) Apply(info *ExtraInfo) {
	if dto.Title != nil {
		info.Title = *dto.Title
	}
	if dto.Sex != nil {
		info.Sex = *dto.Sex
	}
	if dto.DateOfBirth != nil {
		if *dto.DateOfBirth == "" {
			info.DateOfBirth = nil
		} else if dob, err := time.Parse(dateLayout, *dto.DateOfBirth); err == nil {
			info.DateOfBirth = &dob
		}
	}
	if dto.UserStatus != nil {
		info.UserStatus = *dto.UserStatus
	}
	if dto.Address != nil {
		info.Address = *dto.Address
	}
	if dto.PhoneNo != nil {
		info.PhoneNo = *dto.PhoneNo
	}
	if dto.UserType != nil {
		info.UserType = *dto.UserType
	}
	if dto.ProfilePicture != nil {
		info.ProfilePicture = dto.ProfilePicture
	}
	if dto.AboutMe != nil {
		info.AboutMe = *dto.AboutMe
	}
	if dto.Department != nil {
		info.DepartmentID = dto.Department
	}
}

// UpdateUserDTO backs PUT (every required field present) and PATCH (any subset).
type UpdateUserDTO struct {
	Username    *string `json:"username"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsActive    *bool   `json:"is_active"`
}

func (dto UpdateUserDTO) Validate(partial bool) *errors.AppError {
	v := validation.NewValidator()
	if !partial {
		v.Field("username", dto.Username).Required()
		v.Field("email", dto.Email).Required()
	}
	v.Field("username", dto.Username).MaxLength(150).Custom(func(value interface{}) *errors.AppError {
		if s, _ := value.(*string); s != nil && *s == "" {
			return errors.NewValidationFieldError("username", "username may not be blank", errors.ErrCodeInvalidField)
		}
		return nil
	})
	v.Field("first_name", dto.FirstName).MaxLength(150)
	v.Field("last_name", dto.LastName).MaxLength(150)
	v.Field("email", dto.Email).Email().MaxLength(254)
	return v.Validate()
}

func (dto UpdateUserDTO) Apply(u *User) {
	if dto.Username != nil {
		u.Username = *dto.Username
	}
	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.IsStaff != nil {
		u.IsStaff = *dto.IsStaff
	}
	if dto.IsSuperuser != nil {
		u.IsSuperuser = *dto.IsSuperuser
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
}

type ResetPasswordDTO struct {
	RollNo string  `json:"rollNo"`
	Name   *string `json:"name,omitempty"`
}

func (dto ResetPasswordDTO) Validate() *errors.AppError {
	if dto.RollNo == "" {
		return errors.NewMissingFieldError("rollNo is required")
	}
	return validation.ValidateRollNo(dto.RollNo)
}

type CreatedUserResponse struct {
	User      *User      `json:"user"`
	ExtraInfo *ExtraInfo `json:"extra_info"`
	Password  string     `json:"password"`
}

type ResetPasswordResponse struct {
	Password string `json:"password"`
	Message  string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
