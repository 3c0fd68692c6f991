package designation

import (
	"encoding/json"
	"fmt"
	"sort"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/common/validation"
)

type CreateDesignationDTO struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Type     string `json:"type"`
	Basic    bool   `json:"basic"`
	Category string `json:"category"`
}

func (dto CreateDesignationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(50)
	v.Field("full_name", dto.FullName).MaxLength(100)
	v.Field("type", dto.Type).OneOf(TypeAcademic, TypeAdministrative)
	v.Field("category", dto.Category).MaxLength(20)
	return v.Validate()
}

func (dto CreateDesignationDTO) Designation() *Designation {
	typ := dto.Type
	if typ == "" {
		typ = TypeAdministrative
	}
	return &Designation{
		Name:     dto.Name,
		FullName: dto.FullName,
		Type:     typ,
		Basic:    dto.Basic,
		Category: dto.Category,
	}
}

// UpdateDesignationDTO addresses the designation by Name; the other fields are optional on PATCH.
type UpdateDesignationDTO struct {
	Name     string  `json:"name"`
	FullName *string `json:"full_name"`
	Type     *string `json:"type"`
	Basic    *bool   `json:"basic"`
	Category *string `json:"category"`
}

func (dto UpdateDesignationDTO) Validate(partial bool) *errors.AppError {
	if dto.Name == "" {
		return errors.NewMissingFieldError("No name provided.")
	}
	v := validation.NewValidator()
	if !partial {
		v.Field("full_name", dto.FullName).Required()
	}
	v.Field("full_name", dto.FullName).MaxLength(100)
	v.Field("type", dto.Type).OneOf(TypeAcademic, TypeAdministrative)
	v.Field("category", dto.Category).MaxLength(20)
	return v.Validate()
}

func (dto UpdateDesignationDTO) Apply(d *Designation) {
	if dto.FullName != nil {
		d.FullName = *dto.FullName
	}
	if dto.Type != nil && *dto.Type != "" {
		d.Type = *dto.Type
	}
	if dto.Basic != nil {
		d.Basic = *dto.Basic
	}
	if dto.Category != nil {
		d.Category = *dto.Category
	}
}

type DeleteDesignationDTO struct {
	Name string `json:"name"`
}

// UpdateModuleAccessDTO is the flat PUT body: "designation" plus any module flags.
// Keys that are not module names are ignored.
type UpdateModuleAccessDTO struct {
	Designation string
	Flags       map[string]bool

	invalid []string
}

func (dto *UpdateModuleAccessDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dto.Flags = make(map[string]bool)
	dto.invalid = nil

	if v, ok := raw["designation"]; ok {
		if err := json.Unmarshal(v, &dto.Designation); err != nil {
			dto.invalid = append(dto.invalid, "designation")
		}
	}

	for _, module := range ModuleNames {
		v, ok := raw[module]
		if !ok {
			continue
		}
		var flag bool
		if err := json.Unmarshal(v, &flag); err != nil {
			dto.invalid = append(dto.invalid, module)
			continue
		}
		dto.Flags[module] = flag
	}
	sort.Strings(dto.invalid)
	return nil
}

func (dto UpdateModuleAccessDTO) Validate() *errors.AppError {
	if dto.Designation == "" {
		return errors.NewMissingFieldError("No role provided.")
	}
	if len(dto.invalid) == 0 {
		return nil
	}
	details := errors.ValidationErrors{}
	for _, field := range dto.invalid {
		details.Errors = append(details.Errors, errors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a valid boolean.", field),
			Code:    string(errors.ErrCodeInvalidField),
		})
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).WithDetails(details)
}

type CreatedDesignationResponse struct {
	Role    *Designation  `json:"role"`
	Modules *ModuleAccess `json:"modules"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
