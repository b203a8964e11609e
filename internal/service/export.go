package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

// UsersExportFilename is the attachment name of the users export.
const UsersExportFilename = "utilisateurs.csv"

var usersExportHeader = []string{"id", "name", "email", "role", "analysesCount", "createdAt", "status"}

// ExportUsers writes the cached users as CSV, applying the users section
// filter when the section has been opened.
func ExportUsers(ctx context.Context, r *Router, w io.Writer) error {
	users, _ := r.Resource(ctx, dashboard.ResourceUsers).([]dashboard.User)
	if c, ok := r.Containers()[dashboard.SectionUsers]; ok {
		users = render.FilterUsers(users, c.Filter)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(usersExportHeader); err != nil {
		return fmt.Errorf("export users: %w", err)
	}
	for _, u := range users {
		rec := []string{u.ID.String(), u.Name, u.Email, u.Role, strconv.Itoa(u.AnalysesCount), u.CreatedAt, u.Status}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export users: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export users: %w", err)
	}
	return nil
}
