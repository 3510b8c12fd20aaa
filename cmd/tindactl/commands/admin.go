package commands

import (
	"github.com/spf13/cobra"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/service"
)

var adminInput service.SignUpInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN account",
	Long: `Create an ADMIN account. Admins cannot sign up through the API.

Example:
  tindactl create-admin --email admin@tindaph.com --name "Super Admin" --password s3cretpass \
    --region NCR --province "Metro Manila" --city Manila`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		svc := service.NewAuthService(repository.NewUserRepository(gdb), nil, nil, nil)
		u, err := svc.CreateAdmin(cmd.Context(), adminInput)
		if err != nil {
			return err
		}
		Success("created admin %s (%s)", u.Email, u.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminInput.Email, "email", "", "login email")
	f.StringVar(&adminInput.Name, "name", "", "display name")
	f.StringVar(&adminInput.Password, "password", "", "password (at least 8 characters)")
	f.StringVar(&adminInput.Location.Region, "region", "NCR", "home region")
	f.StringVar(&adminInput.Location.Province, "province", "Metro Manila", "home province")
	f.StringVar(&adminInput.Location.City, "city", "Manila", "home city")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("password")
}
