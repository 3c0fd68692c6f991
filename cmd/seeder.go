package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

const adminDesignation = "System Administrator"

var (
	clearData  bool
	adminRoll  string
	adminName  string
	seedTables = []string{"globals_holdsdesignation", "globals_moduleaccess", "globals_designation", "globals_extrainfo", "auth_user"}
)

var defaultDesignations = []designation.CreateDesignationDTO{
	{Name: "student", FullName: "Student", Type: designation.TypeAcademic, Basic: true},
	{Name: "Professor", FullName: "Professor", Type: designation.TypeAcademic, Basic: true},
	{Name: "Associate Professor", FullName: "Associate Professor", Type: designation.TypeAcademic, Basic: true},
	{Name: "Assistant Professor", FullName: "Assistant Professor", Type: designation.TypeAcademic, Basic: true},
	{Name: "Dean Academic", FullName: "Dean (Academic Affairs)", Type: designation.TypeAdministrative},
	{Name: "Registrar", FullName: "Registrar", Type: designation.TypeAdministrative},
	{Name: "Director", FullName: "Director", Type: designation.TypeAdministrative},
	{Name: adminDesignation, FullName: adminDesignation, Type: designation.TypeAdministrative},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default designations and an administrator account",
	Long:  `Creates the default designations with their module access rows and a superuser holding every module.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		app, err := newApp(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		defer app.Close(context.Background())

		if clearData {
			for _, table := range seedTables {
				if err := app.Gorm.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
			cmd.Println("Cleared existing accounts and designations")
		}

		if err := seedDesignations(ctx, cmd, app); err != nil {
			return err
		}
		return seedAdmin(ctx, cmd, app)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&adminRoll, "admin-roll", "admin001", "roll number of the seeded administrator")
	seedCmd.Flags().StringVar(&adminName, "admin-name", "System Admin", "display name of the seeded administrator")
}

func seedDesignations(ctx context.Context, cmd *cobra.Command, app *App) error {
	for _, dto := range defaultDesignations {
		_, err := app.Designations.GetDesignation(ctx, dto.Name)
		if err == nil {
			continue
		}
		if !internal.IsNotFound(err) {
			return err
		}
		if _, err := app.Designations.CreateDesignation(ctx, dto); err != nil {
			return fmt.Errorf("failed to seed designation %s: %w", dto.Name, err)
		}
		cmd.Println("Seeded designation:", dto.Name)
	}

	flags := make(map[string]bool, len(designation.ModuleNames))
	for _, module := range designation.ModuleNames {
		flags[module] = true
	}
	if _, err := app.Designations.UpdateModuleAccess(ctx, designation.UpdateModuleAccessDTO{
		Designation: adminDesignation,
		Flags:       flags,
	}); err != nil {
		return fmt.Errorf("failed to grant modules to %s: %w", adminDesignation, err)
	}
	return nil
}

func seedAdmin(ctx context.Context, cmd *cobra.Command, app *App) error {
	created, err := app.Users.CreateUser(ctx, user.CreateUserDTO{
		RollNo:      adminRoll,
		Name:        adminName,
		IsSuperuser: true,
	})
	switch {
	case err == nil:
		cmd.Printf("Seeded administrator %s with password %s\n", created.User.Email, created.Password)
	case isDuplicate(err):
		cmd.Println("Administrator already exists:", adminRoll)
	default:
		return fmt.Errorf("failed to seed administrator: %w", err)
	}

	email := user.NewAccount(user.AccountInput{RollNo: adminRoll, Name: adminName}, app.Config.Accounts.EmailDomain, time.Now()).Email
	current, err := app.Roles.GetUserRoles(ctx, email)
	if err != nil {
		return err
	}

	roles := []role.RoleInput{{Name: adminDesignation}}
	for _, d := range current.Roles {
		roles = append(roles, role.RoleInput{Name: d.Name})
	}
	if _, err := app.Roles.UpdateUserRoles(ctx, role.UpdateRolesDTO{Email: email, Roles: roles}); err != nil {
		return fmt.Errorf("failed to assign %s: %w", adminDesignation, err)
	}
	return nil
}

func isDuplicate(err error) bool {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return false
	}
	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok {
		return false
	}
	for _, e := range details.Errors {
		if e.Code == string(internal.ErrCodeDuplicate) {
			return true
		}
	}
	return false
}
