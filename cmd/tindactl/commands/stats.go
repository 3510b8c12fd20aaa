package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/service"
	"github.com/tindaph/tinda-backend/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the admin dashboard numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		listingRepo := repository.NewListingRepository(gdb)
		users := repository.NewUserRepository(gdb)
		listings := service.NewListingService(listingRepo, storage.InlineStore{}, service.NewNotificationService(repository.NewNotificationRepository(gdb)))
		admin := service.NewAdminService(listings, listingRepo, users)

		// the operator holding the database credentials acts as an admin
		s, err := admin.Stats(cmd.Context(), &model.Session{Role: model.RoleAdmin})
		if err != nil {
			return err
		}
		fmt.Println(renderStats(s))
		return nil
	},
}
