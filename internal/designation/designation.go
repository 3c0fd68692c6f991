package designation

import (
	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
)

const (
	TypeAcademic       = "academic"
	TypeAdministrative = "administrative"
)

type Designation struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Type     string `json:"type"`
	Basic    bool   `json:"basic"`
	Category string `json:"category"`
}

// ModuleAccess holds one flag per functional module of the wider system.
type ModuleAccess struct {
	ID                   int64  `json:"id"`
	Designation          string `json:"designation"`
	ProgramAndCurriculum bool   `json:"program_and_curriculum"`
	CourseRegistration   bool   `json:"course_registration"`
	CourseManagement     bool   `json:"course_management"`
	OtherAcademics       bool   `json:"other_academics"`
	Spacs                bool   `json:"spacs"`
	Department           bool   `json:"department"`
	Examinations         bool   `json:"examinations"`
	HR                   bool   `json:"hr"`
	IWD                  bool   `json:"iwd"`
	ComplaintManagement  bool   `json:"complaint_management"`
	FTS                  bool   `json:"fts"`
	PurchaseAndStore     bool   `json:"purchase_and_store"`
	RSPC                 bool   `json:"rspc"`
	HostelManagement     bool   `json:"hostel_management"`
	MessManagement       bool   `json:"mess_management"`
	Gymkhana             bool   `json:"gymkhana"`
	PlacementCell        bool   `json:"placement_cell"`
	VisitorHostel        bool   `json:"visitor_hostel"`
	PHC                  bool   `json:"phc"`
}

// ModuleNames lists the module flags in column order.
var ModuleNames = []string{
	"program_and_curriculum",
	"course_registration",
	"course_management",
	"other_academics",
	"spacs",
	"department",
	"examinations",
	"hr",
	"iwd",
	"complaint_management",
	"fts",
	"purchase_and_store",
	"rspc",
	"hostel_management",
	"mess_management",
	"gymkhana",
	"placement_cell",
	"visitor_hostel",
	"phc",
}

func (m *ModuleAccess) flags() map[string]*bool {
	return map[string]*bool{
		"program_and_curriculum": &m.ProgramAndCurriculum,
		"course_registration":    &m.CourseRegistration,
		"course_management":      &m.CourseManagement,
		"other_academics":        &m.OtherAcademics,
		"spacs":                  &m.Spacs,
		"department":             &m.Department,
		"examinations":           &m.Examinations,
		"hr":                     &m.HR,
		"iwd":                    &m.IWD,
		"complaint_management":   &m.ComplaintManagement,
		"fts":                    &m.FTS,
		"purchase_and_store":     &m.PurchaseAndStore,
		"rspc":                   &m.RSPC,
		"hostel_management":      &m.HostelManagement,
		"mess_management":        &m.MessManagement,
		"gymkhana":               &m.Gymkhana,
		"placement_cell":         &m.PlacementCell,
		"visitor_hostel":         &m.VisitorHostel,
		"phc":                    &m.PHC,
	}
}

// Flag returns the value of a module flag and whether the module exists.
func (m *ModuleAccess) Flag(module string) (bool, bool) {
	p, ok := m.flags()[module]
	if !ok {
		return false, false
	}
	return *p, true
}

// SetFlags applies the given flags and returns the ones whose value changed.
func (m *ModuleAccess) SetFlags(values map[string]bool) map[string]bool {
	changed := make(map[string]bool)
	flags := m.flags()
	for module, v := range values {
		p, ok := flags[module]
		if !ok {
			continue
		}
		if *p != v {
			changed[module] = v
		}
		*p = v
	}
	return changed
}

// Enabled lists the modules switched on, in column order.
func (m *ModuleAccess) Enabled() []string {
	flags := m.flags()
	var out []string
	for _, name := range ModuleNames {
		if *flags[name] {
			out = append(out, name)
		}
	}
	return out
}

// NewModuleAccess returns the all-false row created with a designation.
func NewModuleAccess(designation string) *ModuleAccess {
	return &ModuleAccess{Designation: designation}
}

func ToDataModel(d *Designation) *designationDatamodel.Designation {
	return &designationDatamodel.Designation{
		ID:       d.ID,
		Name:     d.Name,
		FullName: d.FullName,
		Type:     d.Type,
		Basic:    d.Basic,
		Category: d.Category,
	}
}

func FromDataModel(d *designationDatamodel.Designation) *Designation {
	return &Designation{
		ID:       d.ID,
		Name:     d.Name,
		FullName: d.FullName,
		Type:     d.Type,
		Basic:    d.Basic,
		Category: d.Category,
	}
}

func FromDataModels(ds []*designationDatamodel.Designation) []*Designation {
	out := make([]*Designation, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDataModel(d))
	}
	return out
}

func ModuleAccessToDataModel(m *ModuleAccess) *designationDatamodel.ModuleAccess {
	return &designationDatamodel.ModuleAccess{
		ID:                   m.ID,
		Designation:          m.Designation,
		ProgramAndCurriculum: m.ProgramAndCurriculum,
		CourseRegistration:   m.CourseRegistration,
		CourseManagement:     m.CourseManagement,
		OtherAcademics:       m.OtherAcademics,
		Spacs:                m.Spacs,
		Department:           m.Department,
		Examinations:         m.Examinations,
		HR:                   m.HR,
		IWD:                  m.IWD,
		ComplaintManagement:  m.ComplaintManagement,
		FTS:                  m.FTS,
		PurchaseAndStore:     m.PurchaseAndStore,
		RSPC:                 m.RSPC,
		HostelManagement:     m.HostelManagement,
		MessManagement:       m.MessManagement,
		Gymkhana:             m.Gymkhana,
		PlacementCell:        m.PlacementCell,
		VisitorHostel:        m.VisitorHostel,
		PHC:                  m.PHC,
	}
}

func ModuleAccessFromDataModel(m *designationDatamodel.ModuleAccess) *ModuleAccess {
	return &ModuleAccess{
		ID:                   m.ID,
		Designation:          m.Designation,
		ProgramAndCurriculum: m.ProgramAndCurriculum,
		CourseRegistration:   m.CourseRegistration,
		CourseManagement:     m.CourseManagement,
		OtherAcademics:       m.OtherAcademics,
		Spacs:                m.Spacs,
		Department:           m.Department,
		Examinations:         m.Examinations,
		HR:                   m.HR,
		IWD:                  m.IWD,
		ComplaintManagement:  m.ComplaintManagement,
		FTS:                  m.FTS,
		PurchaseAndStore:     m.PurchaseAndStore,
		RSPC:                 m.RSPC,
		HostelManagement:     m.HostelManagement,
		MessManagement:       m.MessManagement,
		Gymkhana:             m.Gymkhana,
		PlacementCell:        m.PlacementCell,
		VisitorHostel:        m.VisitorHostel,
		PHC:                  m.PHC,
	}
}
