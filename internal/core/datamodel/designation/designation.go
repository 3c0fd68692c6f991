package designation

import "time"

// Designation maps globals_designation.
type Designation struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"column:name;size:50;uniqueIndex;not null"`
	FullName string `gorm:"column:full_name;size:100;not null;default:''"`
	Type     string `gorm:"column:type;size:30;not null;default:'administrative'"`
	Basic    bool   `gorm:"column:basic;not null;default:false"`
	Category string `gorm:"column:category;size:20;not null;default:''"`
}

func (Designation) TableName() string {
	return "globals_designation"
}

// HoldsDesignation maps globals_holdsdesignation, one row per (user, designation) grant.
type HoldsDesignation struct {
	ID            int64     `gorm:"primaryKey"`
	HeldAt        time.Time `gorm:"column:held_at;not null"`
	DesignationID int64     `gorm:"column:designation_id;not null;index"`
	UserID        int64     `gorm:"column:user_id;not null;index"`
	WorkingID     int64     `gorm:"column:working_id;not null"`
}

func (HoldsDesignation) TableName() string {
	return "globals_holdsdesignation"
}

// ModuleAccess maps globals_moduleaccess, one row per designation name.
type ModuleAccess struct {
	ID                   int64  `gorm:"primaryKey"`
	Designation          string `gorm:"column:designation;size:155;uniqueIndex;not null"`
	ProgramAndCurriculum bool   `gorm:"column:program_and_curriculum;not null;default:false"`
	CourseRegistration   bool   `gorm:"column:course_registration;not null;default:false"`
	CourseManagement     bool   `gorm:"column:course_management;not null;default:false"`
	OtherAcademics       bool   `gorm:"column:other_academics;not null;default:false"`
	Spacs                bool   `gorm:"column:spacs;not null;default:false"`
	Department           bool   `gorm:"column:department;not null;default:false"`
	Examinations         bool   `gorm:"column:examinations;not null;default:false"`
	HR                   bool   `gorm:"column:hr;not null;default:false"`
	IWD                  bool   `gorm:"column:iwd;not null;default:false"`
	ComplaintManagement  bool   `gorm:"column:complaint_management;not null;default:false"`
	FTS                  bool   `gorm:"column:fts;not null;default:false"`
	PurchaseAndStore     bool   `gorm:"column:purchase_and_store;not null;default:false"`
	RSPC                 bool   `gorm:"column:rspc;not null;default:false"`
	HostelManagement     bool   `gorm:"column:hostel_management;not null;default:false"`
	MessManagement       bool   `gorm:"column:mess_management;not null;default:false"`
	Gymkhana             bool   `gorm:"column:gymkhana;not null;default:false"`
	PlacementCell        bool   `gorm:"column:placement_cell;not null;default:false"`
	VisitorHostel        bool   `gorm:"column:visitor_hostel;not null;default:false"`
	PHC                  bool   `gorm:"column:phc;not null;default:false"`
}

func (ModuleAccess) TableName() string {
	return "globals_moduleaccess"
}
